// Package testutil provides shared test helpers for setting up case directories and catalogues.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/fdsreac/internal/index"
	"github.com/starford/fdsreac/internal/stoich"
	"github.com/starford/fdsreac/internal/storage"
)

// Header and Trailer surround the reaction block in generated case files.
const (
	Header  = "&HEAD CHID='room_fire', TITLE='Room fire' /\n&MESH IJK=20,20,10, XB=0,2,0,2,0,1 /\n&TIME T_END=60. /\n\n"
	Trailer = "\n&SURF ID='BURNER', HRRPUA=500. /\n&TAIL /\n"
)

// Reference returns a complete, valid input set with a non-zero HCl yield.
func Reference() stoich.Inputs {
	return stoich.Inputs{
		HeatOfCombustion: 31700,
		SootYield:        0.1,
		O2Consumption:    1.5,
		CO2Yield:         2.5,
		COYield:          0.05,
		HClYield:         0.01,
		MolarMass:        104.3233,
	}
}

// CaseDocument renders a case file holding the reaction block for in.
func CaseDocument(in stoich.Inputs, fuelID string) string {
	return Header + stoich.Build(in, fuelID) + Trailer
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fdsreac-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCases creates a temporary cases directory with a storage.Provider.
func TestCases(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteCase stores content at path and fails the test on error.
func WriteCase(t *testing.T, store storage.Provider, path, content string) {
	t.Helper()
	if err := store.Write(path, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
