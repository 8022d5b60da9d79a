package index

import (
	"fmt"
	"log/slog"

	"github.com/starford/sowilo/internal/checksum"
	"github.com/starford/sowilo/internal/models"
)

// SyncStats reports what Sync changed.
type SyncStats struct {
	Upserted  int
	Unchanged int
	Removed   int
}

// Sync brings the index in line with records:
//   - records whose checksum differs from the stored one are upserted
//   - rows past the end of records are deleted
func Sync(db FAQIndex, records []models.FAQRecord, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	stored, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	for i, rec := range records {
		cs, err := recordChecksum(rec)
		if err != nil {
			return stats, err
		}
		if stored[i] == cs {
			stats.Unchanged++
			continue
		}
		row := FAQRow{
			Position: i,
			Question: rec.Question,
			Keywords: rec.Keywords,
			Answer:   rec.Answer,
			Checksum: cs,
		}
		if err := db.UpsertFAQ(row); err != nil {
			return stats, err
		}
		stats.Upserted++
		logger.Debug("sync: indexed", slog.Int("position", i), slog.String("question", rec.Question))
	}

	for pos := range stored {
		if pos < len(records) {
			continue
		}
		if err := db.DeleteFAQ(pos); err != nil {
			logger.Warn("sync: delete failed", slog.Int("position", pos), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.Int("position", pos))
	}

	return stats, nil
}

func recordChecksum(rec models.FAQRecord) (string, error) {
	sum, err := checksum.JSON(rec)
	if err != nil {
		return "", fmt.Errorf("index: %w", err)
	}
	return sum, nil
}
