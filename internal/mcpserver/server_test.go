package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fdsreac/internal/reacservice"
	"github.com/starford/fdsreac/internal/stoich"
	"github.com/starford/fdsreac/internal/storage"
	"github.com/starford/fdsreac/internal/testutil"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	_, store := testutil.TestCases(t)
	db := testutil.TestDB(t)
	return New(reacservice.NewService(store, db, ""), "test"), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "compute_reaction":
		result, err = srv.computeReaction(ctx, req)
	case "import_case":
		result, err = srv.importCase(ctx, req)
	case "save_reaction":
		result, err = srv.saveReaction(ctx, req)
	case "list_cases":
		result, err = srv.listCases(ctx, req)
	case "get_record_format":
		result, err = srv.getRecordFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func referenceArgs() map[string]any {
	args := make(map[string]any)
	for name, v := range testutil.Reference().Fields() {
		args[name] = v
	}
	return args
}

func TestComputeReaction(t *testing.T) {
	srv, _ := testServer(t)
	args := referenceArgs()
	args["fuel_id"] = "PMMA"

	r := callTool(t, srv, "compute_reaction", args)
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if got := resultText(r); got != stoich.Build(testutil.Reference(), "PMMA") {
		t.Errorf("block = %q", got)
	}
}

func TestComputeReaction_Invalid(t *testing.T) {
	srv, _ := testServer(t)
	args := referenceArgs()
	args[stoich.FieldMolarMass] = -1.0

	r := callTool(t, srv, "compute_reaction", args)
	if !r.IsError || !strings.Contains(resultText(r), stoich.FieldMolarMass) {
		t.Errorf("expected molar mass error, got %q", resultText(r))
	}
}

func TestComputeReaction_ZeroHeatRelease(t *testing.T) {
	srv, _ := testServer(t)
	tool := srv.MCPServer().GetTool("compute_reaction")
	if tool == nil {
		t.Fatal("compute_reaction not registered")
	}
	prop, _ := tool.Tool.InputSchema.Properties[stoich.FieldHeatRelease].(map[string]any)
	if desc, _ := prop["description"].(string); !strings.Contains(desc, ">= 0") {
		t.Errorf("heat_release description = %q, want >= 0", desc)
	}

	args := referenceArgs()
	args[stoich.FieldHeatRelease] = 0.0
	r := callTool(t, srv, "compute_reaction", args)
	if r.IsError {
		t.Fatalf("zero heat of combustion rejected: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "HEAT_OF_COMBUSTION=0 ") {
		t.Errorf("block = %q", resultText(r))
	}
}

func TestImportAndSave(t *testing.T) {
	srv, store := testServer(t)
	testutil.WriteCase(t, store, "room.fds", testutil.CaseDocument(testutil.Reference(), "PMMA"))

	r := callTool(t, srv, "import_case", map[string]any{"path": "room.fds"})
	if r.IsError {
		t.Fatalf("import: %s", resultText(r))
	}
	var imp reacservice.ImportResult
	if err := json.Unmarshal([]byte(resultText(r)), &imp); err != nil {
		t.Fatalf("decode import: %v", err)
	}
	if imp.Session.FuelID != "PMMA" || len(imp.Missing) != 0 {
		t.Errorf("import = %+v", imp)
	}

	args := referenceArgs()
	args[stoich.FieldHClYield] = 0.0
	args["path"] = "room.fds"
	args["checksum"] = imp.Session.Checksum
	r = callTool(t, srv, "save_reaction", args)
	if r.IsError {
		t.Fatalf("save: %s", resultText(r))
	}
	got, _ := store.Read("room.fds")
	if strings.Contains(string(got), "'HYDROGEN CHLORIDE','WATER VAPOR'") {
		t.Error("saved PRODUCTS should no longer list HCl")
	}

	// The session checksum is now stale.
	r = callTool(t, srv, "save_reaction", args)
	if !r.IsError || !strings.Contains(resultText(r), "changed since import") {
		t.Errorf("expected conflict, got %q", resultText(r))
	}
}

func TestImportCase_Missing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "import_case", map[string]any{"path": "nope.fds"})
	if !r.IsError || resultText(r) != "not found: nope.fds" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestListCases(t *testing.T) {
	srv, store := testServer(t)
	testutil.WriteCase(t, store, "a.fds", testutil.Header)
	args := referenceArgs()
	args["path"] = "a.fds"
	args["fuel_id"] = "HEPTANE"
	if r := callTool(t, srv, "save_reaction", args); r.IsError {
		t.Fatalf("save: %s", resultText(r))
	}

	r := callTool(t, srv, "list_cases", map[string]any{"fuel_id": "HEPTANE"})
	if !strings.Contains(resultText(r), `"path": "a.fds"`) {
		t.Errorf("list = %s", resultText(r))
	}
}

func TestGetRecordFormat(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_record_format", nil)
	if !strings.Contains(resultText(r), "&SPEC ID='PRODUCTS'") {
		t.Error("contract missing PRODUCTS layout")
	}
}
