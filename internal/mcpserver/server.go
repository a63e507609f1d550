// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the reaction tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fdsreac/internal/apperr"
	"github.com/starford/fdsreac/internal/reacservice"
	"github.com/starford/fdsreac/internal/stoich"
)

// RecordFormatURI identifies the record format resource.
const RecordFormatURI = "fdsreac://record-format"

var inputDescriptions = map[string]string{
	stoich.FieldHeatRelease:   "Heat of combustion, kJ/kg (>= 0)",
	stoich.FieldSootYield:     "Soot yield, kg/kg (>= 0)",
	stoich.FieldO2Consumption: "Oxygen consumed per unit fuel mass, kg/kg (>= 0)",
	stoich.FieldCO2Yield:      "CO2 yield, kg/kg (>= 0)",
	stoich.FieldCOYield:       "CO yield, kg/kg (>= 0)",
	stoich.FieldHClYield:      "HCl yield, kg/kg (>= 0, optional, default 0)",
	stoich.FieldMolarMass:     "Fuel molar mass, g/mol (> 0)",
}

// Server wraps the MCP server with the reaction tools.
type Server struct {
	mcp *server.MCPServer
	svc *reacservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *reacservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"fdsreac",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("compute_reaction", inputOptions(true,
		mcp.WithDescription("Compute the FDS SPEC/REAC record block for a fuel from its fire properties. "+
			"Returns the block text ready to paste into an .fds input file."),
		mcp.WithString("fuel_id", mcp.Description("Fuel species id (default: configured fuel)")),
	)...), s.computeReaction)

	s.mcp.AddTool(mcp.NewTool("import_case",
		mcp.WithDescription("Recover the fire properties from an existing .fds case file. "+
			"Returns recovered fields, missing fields, warnings, the verbatim original block "+
			"and a session checksum to pass to save_reaction."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Case path relative to the cases directory")),
	), s.importCase)

	s.mcp.AddTool(mcp.NewTool("save_reaction", inputOptions(false,
		mcp.WithDescription("Splice a reaction block into a case file. Pass either block, or the "+
			"fire properties to compute one. Existing reaction records are replaced; all other "+
			"text in the file is preserved."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Source case path relative to the cases directory")),
		mcp.WithString("block", mcp.Description("Record block to write (computed from the inputs when empty)")),
		mcp.WithString("fuel_id", mcp.Description("Fuel id for computing the block (default: the file's fuel)")),
		mcp.WithString("dest", mcp.Description("Destination relative to the source directory (default: overwrite source)")),
		mcp.WithString("checksum", mcp.Description("Session checksum from import_case; the save fails if the file changed since")),
	)...), s.saveReaction)

	s.mcp.AddTool(mcp.NewTool("list_cases",
		mcp.WithDescription("List catalogued case files with their fuel id, molar mass and heat of combustion."),
		mcp.WithString("fuel_id", mcp.Description("Optional fuel id filter")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
	), s.listCases)

	s.mcp.AddTool(mcp.NewTool("get_record_format",
		mcp.WithDescription("Returns the reaction record format produced and recognised by fdsreac. "+
			"Call this before editing reaction records by hand."),
	), s.getRecordFormat)

	s.mcp.AddResource(
		mcp.NewResource(RecordFormatURI, "Reaction Record Format",
			mcp.WithResourceDescription("SPEC/REAC record block layout and the rules used to read it back."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// inputOptions appends one number parameter per engine input to opts.
func inputOptions(required bool, opts ...mcp.ToolOption) []mcp.ToolOption {
	for _, name := range stoich.FieldOrder {
		props := []mcp.PropertyOption{mcp.Description(inputDescriptions[name])}
		if required && name != stoich.FieldHClYield {
			props = append(props, mcp.Required())
		}
		opts = append(opts, mcp.WithNumber(name, props...))
	}
	return opts
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) computeReaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Compute(ctx, reacservice.RawInputs(req.GetArguments()), req.GetString("fuel_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Block), nil
}

func (s *Server) importCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Import(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(describe(err, path)), nil
	}
	return jsonResult(res)
}

func (s *Server) saveReaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sess, err := s.svc.Open(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(describe(err, path)), nil
	}
	sess.Checksum = req.GetString("checksum", "")

	block := req.GetString("block", "")
	if block == "" {
		fuel := req.GetString("fuel_id", sess.FuelID)
		computed, err := s.svc.Compute(ctx, reacservice.RawInputs(req.GetArguments()), fuel)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		block = computed.Block
	}

	res, err := s.svc.Save(ctx, sess, block, req.GetString("dest", ""))
	if err != nil {
		return mcp.NewToolResultError(describe(err, path)), nil
	}
	return jsonResult(res)
}

func (s *Server) listCases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cases, total, err := s.svc.ListCases(ctx,
		req.GetInt("limit", 50), req.GetInt("offset", 0), req.GetString("fuel_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"cases": cases, "total": total})
}

func (s *Server) getRecordFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RecordFormatURI,
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}

func describe(err error, path string) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "not found: " + path
	case errors.Is(err, apperr.ErrConflict):
		return "case file changed since import: " + path
	}
	return err.Error()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
