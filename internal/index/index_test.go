package index

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/fdsreac/internal/models"
	"github.com/starford/fdsreac/internal/stoich"
	"github.com/starford/fdsreac/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "fdsreac-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func caseDoc(fuel string) string {
	in := stoich.Inputs{
		HeatOfCombustion: 31700,
		SootYield:        0.1,
		O2Consumption:    1.5,
		CO2Yield:         2.5,
		COYield:          0.05,
		MolarMass:        104.3233,
	}
	return "&HEAD CHID='t' /\n" + stoich.Build(in, fuel) + "&TAIL /\n"
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cases`).Scan(&count); err != nil {
		t.Fatalf("cases table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	c := models.Case{Path: "room.fds", FuelID: "PMMA", Checksum: "abc123", UpdatedAt: time.Now()}
	if err := db.UpsertCase(c); err != nil {
		t.Fatalf("UpsertCase: %v", err)
	}
	cs, err := db.GetChecksum("room.fds")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	mw := 104.3
	_ = db.UpsertCase(models.Case{Path: "up.fds", FuelID: "Fuel", Checksum: "1", MolarMass: &mw})
	_ = db.UpsertCase(models.Case{Path: "up.fds", FuelID: "PMMA", Checksum: "2", ParseError: "no MW"})

	got, err := db.GetCase("up.fds")
	if err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if got.Checksum != "2" || got.FuelID != "PMMA" {
		t.Errorf("case = %+v, want checksum 2 and fuel PMMA", got)
	}
	if got.MolarMass != nil {
		t.Errorf("molar mass should be cleared, got %v", *got.MolarMass)
	}
	if got.ParseError != "no MW" {
		t.Errorf("parse error = %q", got.ParseError)
	}
}

func TestDeleteCase(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertCase(models.Case{Path: "del.fds", FuelID: "Fuel", Checksum: "x"})

	if err := db.DeleteCase("del.fds"); err != nil {
		t.Fatalf("DeleteCase: %v", err)
	}
	cs, _ := db.GetChecksum("del.fds")
	if cs != "" {
		t.Errorf("deleted case still has checksum %q", cs)
	}
	if _, err := db.GetCase("del.fds"); err == nil {
		t.Error("expected not found after delete")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.fds")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListCases_FilterAndPage(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertCase(models.Case{Path: "a.fds", FuelID: "PMMA", Checksum: "1"})
	_ = db.UpsertCase(models.Case{Path: "b.fds", FuelID: "Fuel", Checksum: "2"})
	_ = db.UpsertCase(models.Case{Path: "c.fds", FuelID: "PMMA", Checksum: "3"})

	all, total, err := db.ListCases(2, 0, "")
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if total != 3 || len(all) != 2 || all[0].Path != "a.fds" {
		t.Errorf("page = %+v total %d, want 2 of 3 starting at a.fds", all, total)
	}

	pmma, total, _ := db.ListCases(10, 0, "PMMA")
	if total != 2 || len(pmma) != 2 || pmma[1].Path != "c.fds" {
		t.Errorf("PMMA filter = %+v total %d", pmma, total)
	}
}

func TestSearch_PathAndFuel(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertCase(models.Case{Path: "tunnel/run1.fds", FuelID: "HEPTANE", Checksum: "1"})
	_ = db.UpsertCase(models.Case{Path: "room.fds", FuelID: "PMMA", Checksum: "2"})

	byPath, err := db.Search("tunnel", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byPath) != 1 || byPath[0].Path != "tunnel/run1.fds" {
		t.Errorf("path search = %+v", byPath)
	}
	byFuel, _ := db.Search("pmma", 10)
	if len(byFuel) != 1 || byFuel[0].Path != "room.fds" {
		t.Errorf("fuel search = %+v", byFuel)
	}
}

func TestSearch_WildcardsMatchLiterally(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertCase(models.Case{Path: "room_v2.fds", FuelID: "PMMA", Checksum: "1"})
	_ = db.UpsertCase(models.Case{Path: "tunnel.fds", FuelID: "HEPTANE", Checksum: "2"})

	under, err := db.Search("_", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(under) != 1 || under[0].Path != "room_v2.fds" {
		t.Errorf("search _ = %+v, want only room_v2.fds", under)
	}
	if pct, _ := db.Search("%", 10); len(pct) != 0 {
		t.Errorf("search %% = %+v, want none", pct)
	}
}

func TestDescribe(t *testing.T) {
	c := Describe("room.fds", []byte(caseDoc("PMMA")))
	if c.FuelID != "PMMA" || !c.HasBlock {
		t.Errorf("case = %+v, want fuel PMMA with block", c)
	}
	if c.ParseError != "" {
		t.Fatalf("unexpected parse error %q", c.ParseError)
	}
	if c.Recovered != len(stoich.FieldOrder) {
		t.Errorf("recovered = %d, want %d", c.Recovered, len(stoich.FieldOrder))
	}
	if c.MolarMass == nil || *c.MolarMass != 104.3233 {
		t.Errorf("molar mass = %v", c.MolarMass)
	}
	if c.Checksum != storage.Checksum([]byte(caseDoc("PMMA"))) {
		t.Error("checksum should cover the raw file content")
	}
}

func TestDescribe_RecordsFatalError(t *testing.T) {
	c := Describe("bare.fds", []byte("&HEAD CHID='bare' /\n&TAIL /\n"))
	if c.ParseError == "" {
		t.Error("expected parse error for a file without fuel molar mass")
	}
	if c.FuelID != stoich.DefaultFuelID || c.HasBlock {
		t.Errorf("case = %+v", c)
	}
}

func TestSync_AddsAndRemoves(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("keep.fds", []byte(caseDoc("Fuel")))
	_ = store.Write("readme.txt", []byte("ignored"))
	_ = db.UpsertCase(models.Case{Path: "gone.fds", FuelID: "Fuel", Checksum: "old"})

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	sums, _ := db.AllChecksums()
	if len(sums) != 1 {
		t.Fatalf("checksums = %v, want only keep.fds", sums)
	}
	if _, ok := sums["keep.fds"]; !ok {
		t.Error("keep.fds not indexed")
	}
}
