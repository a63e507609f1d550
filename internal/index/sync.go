package index

import (
	"log/slog"

	"github.com/starford/fdsreac/internal/fdsrec"
	"github.com/starford/fdsreac/internal/metrics"
	"github.com/starford/fdsreac/internal/models"
	"github.com/starford/fdsreac/internal/storage"
)

// Sync walks the cases directory and brings the catalogue up to date:
//   - new/changed case files are described and upserted
//   - files removed from disk are deleted from the catalogue
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteCase(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	metrics.CasesIndexed.Set(float64(len(disk)))
	return nil
}

// Describe builds the catalogue entry for a case file's content.
// A fatal extraction error is recorded on the entry rather than returned.
func Describe(path string, data []byte) models.Case {
	doc := string(data)
	fuel := fdsrec.ExtractFuelID(doc)
	_, hasBlock := fdsrec.LocateBlock(doc, fuel)

	c := models.Case{
		Path:     path,
		FuelID:   fuel,
		Checksum: storage.Checksum(data),
		HasBlock: hasBlock,
	}
	partial, warnings, err := fdsrec.ExtractInputs(doc, fuel)
	if err != nil {
		c.ParseError = err.Error()
		return c
	}
	c.MolarMass = partial.MolarMass
	c.HeatOfCombustion = partial.HeatOfCombustion
	c.Recovered = len(partial.Fields())
	c.Warnings = len(warnings)
	return c
}

func indexFile(db *DB, path string, data []byte) error {
	return db.UpsertCase(Describe(path, data))
}
