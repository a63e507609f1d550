package reacservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/starford/fdsreac/internal/apperr"
	"github.com/starford/fdsreac/internal/fdsrec"
	"github.com/starford/fdsreac/internal/metrics"
	"github.com/starford/fdsreac/internal/stoich"
	"github.com/starford/fdsreac/internal/storage"
	"github.com/starford/fdsreac/internal/testutil"
)

func newTestService(t *testing.T) (*Service, storage.Provider) {
	t.Helper()
	_, store := testutil.TestCases(t)
	db := testutil.TestDB(t)
	return NewService(store, db, ""), store
}

func TestCompute_Reference(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Compute(context.Background(), InputsToRaw(testutil.Reference()), "PMMA")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.FuelID != "PMMA" {
		t.Errorf("fuel = %q", res.FuelID)
	}
	if len(res.Coefficients.Products) != 6 {
		t.Errorf("products = %d, want 6", len(res.Coefficients.Products))
	}
	if !strings.Contains(res.Block, "&REAC FUEL='PMMA'") {
		t.Errorf("block missing REAC record:\n%s", res.Block)
	}
	if res.Block != stoich.Build(testutil.Reference(), "PMMA") {
		t.Error("block differs from engine output")
	}
}

func TestCompute_DefaultFuel(t *testing.T) {
	_, store := testutil.TestCases(t)
	svc := NewService(store, nil, "HEPTANE")
	res, err := svc.Compute(context.Background(), InputsToRaw(testutil.Reference()), "  ")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.FuelID != "HEPTANE" {
		t.Errorf("fuel = %q, want configured default", res.FuelID)
	}
}

func TestCompute_ValidationError(t *testing.T) {
	svc, _ := newTestService(t)
	raw := InputsToRaw(testutil.Reference())
	raw[stoich.FieldMolarMass] = "0"
	invalid := metrics.ComputationsTotal.WithLabelValues(metrics.StatusInvalid)
	before := promtest.ToFloat64(invalid)

	_, err := svc.Compute(context.Background(), raw, "")
	if got := promtest.ToFloat64(invalid); got != before+1 {
		t.Errorf("invalid computations = %v, want %v", got, before+1)
	}
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != stoich.FieldMolarMass {
		t.Errorf("field = %v, want %s", err, stoich.FieldMolarMass)
	}
}

func TestImport_RecoversInputs(t *testing.T) {
	svc, store := newTestService(t)
	ref := testutil.Reference()
	testutil.WriteCase(t, store, "room.fds", testutil.CaseDocument(ref, "PMMA"))

	res, err := svc.Import(context.Background(), "room.fds")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Session.FuelID != "PMMA" || res.Session.Checksum == "" {
		t.Errorf("session = %+v", res.Session)
	}
	if len(res.Missing) != 0 {
		t.Errorf("missing = %v", res.Missing)
	}
	for name, want := range ref.Fields() {
		got := res.Fields[name]
		if !scalar.EqualWithinAbsOrRel(got, want, 1e-12, 1e-6) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	if !res.HasBlock || !strings.HasPrefix(res.OriginalBlock, "&SPEC ID='OXYGEN'") {
		t.Errorf("original block = %q", res.OriginalBlock)
	}
}

func TestImport_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Import(context.Background(), "missing.fds"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestImport_FatalWithoutMolarMass(t *testing.T) {
	svc, store := newTestService(t)
	testutil.WriteCase(t, store, "bare.fds", testutil.Header+testutil.Trailer)

	res, err := svc.Import(context.Background(), "bare.fds")
	if !errors.Is(err, apperr.ErrFatalParse) {
		t.Fatalf("err = %v, want fatal parse error", err)
	}
	if res != nil {
		t.Error("fatal import must not return a partial result")
	}
}

func TestSave_ReplacesBlockInPlace(t *testing.T) {
	svc, store := newTestService(t)
	old := testutil.Reference()
	testutil.WriteCase(t, store, "room.fds", testutil.CaseDocument(old, "PMMA"))

	imp, err := svc.Import(context.Background(), "room.fds")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	updated := old
	updated.HClYield = 0
	block := stoich.Build(updated, "PMMA")

	res, err := svc.Save(context.Background(), imp.Session, block, "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Path != "room.fds" || res.Placement != fdsrec.PlaceBlock.String() {
		t.Errorf("result = %+v", res)
	}
	got, _ := store.Read("room.fds")
	if string(got) != testutil.CaseDocument(updated, "PMMA") {
		t.Errorf("saved document:\n%s", got)
	}
	if res.Checksum != storage.Checksum(got) {
		t.Error("result checksum should match written content")
	}
}

func TestSave_StaleSessionConflicts(t *testing.T) {
	svc, store := newTestService(t)
	testutil.WriteCase(t, store, "room.fds", testutil.CaseDocument(testutil.Reference(), "Fuel"))
	sess, err := svc.Open(context.Background(), "room.fds")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testutil.WriteCase(t, store, "room.fds", testutil.Header+"&OBST XB=0,1,0,1,0,1 /\n"+testutil.Trailer)

	_, err = svc.Save(context.Background(), sess, stoich.Build(testutil.Reference(), "Fuel"), "")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestSave_NewDestinationKeepsSource(t *testing.T) {
	svc, store := newTestService(t)
	src := testutil.Header + testutil.Trailer
	testutil.WriteCase(t, store, "runs/base.fds", src)
	sess, _ := svc.Open(context.Background(), "runs/base.fds")

	res, err := svc.Save(context.Background(), sess, stoich.Build(testutil.Reference(), "Fuel"), "variant")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Path != "runs/variant.fds" || res.Placement != fdsrec.PlaceAfterHeader.String() {
		t.Errorf("result = %+v", res)
	}
	orig, _ := store.Read("runs/base.fds")
	if string(orig) != src {
		t.Error("source must be untouched when saving elsewhere")
	}

	cases, total, err := svc.ListCases(context.Background(), 10, 0, "")
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if total != 1 || cases[0].Path != "runs/variant.fds" || !cases[0].HasBlock {
		t.Errorf("catalogue = %+v", cases)
	}
}

func TestSave_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Save(ctx, Session{Path: "a.fds"}, "  \n", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty block: err = %v", err)
	}
	if _, err := svc.Save(ctx, Session{}, "&SPEC ID='X' /", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("no path: err = %v", err)
	}
	if _, err := svc.Save(ctx, Session{Path: "nope.fds"}, "&SPEC ID='X' /", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing source: err = %v", err)
	}
}

func TestSearch_WithoutCatalogue(t *testing.T) {
	_, store := testutil.TestCases(t)
	svc := NewService(store, nil, "")
	res, err := svc.Search(context.Background(), "x", 10)
	if err != nil || len(res) != 0 {
		t.Errorf("Search = %v, %v", res, err)
	}
}

func TestDestPath(t *testing.T) {
	cases := []struct {
		source, dest, want string
	}{
		{"room.fds", "", "room.fds"},
		{"runs/room.fds", "copy", "runs/copy.fds"},
		{"runs/room.fds", "copy.FDS", "runs/copy.FDS"},
		{"runs/room.fds", "../other/x.fds", "other/x.fds"},
		{"runs/room.fds", "/top", "top.fds"},
	}
	for _, tc := range cases {
		if got := DestPath(tc.source, tc.dest); got != tc.want {
			t.Errorf("DestPath(%q, %q) = %q, want %q", tc.source, tc.dest, got, tc.want)
		}
	}
}

func TestRawInputs(t *testing.T) {
	raw := RawInputs(map[string]any{
		stoich.FieldHeatRelease: 31700.0,
		stoich.FieldSootYield:   "0,1",
		stoich.FieldMolarMass:   104,
		"extra":                 "ignored",
	})
	if raw[stoich.FieldHeatRelease] != "31700" || raw[stoich.FieldSootYield] != "0,1" || raw[stoich.FieldMolarMass] != "104" {
		t.Errorf("raw = %v", raw)
	}
	if _, ok := raw["extra"]; ok {
		t.Error("unknown keys should be dropped")
	}
	if _, ok := raw[stoich.FieldHClYield]; ok {
		t.Error("absent keys should stay absent")
	}
}
