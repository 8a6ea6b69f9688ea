// Package ingest turns dropped files into pending resume records.
package ingest

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/encode"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// NewRecord builds the pending record for one dropped file. The ID, file
// name and upload date are fixed here and never change afterwards.
func NewRecord(path string, now time.Time) entity.ResumeRecord {
	return entity.ResumeRecord{
		ID:         uuid.New(),
		FileName:   filepath.Base(path),
		SourcePath: path,
		MIMEType:   encode.MIMETypeForPath(path),
		UploadDate: now.Format("2006-01-02"),
		Status:     constants.StatusPending,
	}
}

// FromPaths builds pending records for the given files, preserving order.
// Files outside the documented extension contract are skipped with a
// warning rather than enqueued to fail.
func FromPaths(paths []string, now time.Time, logger *slog.Logger) []entity.ResumeRecord {
	if logger == nil {
		logger = slog.Default()
	}
	records := make([]entity.ResumeRecord, 0, len(paths))
	for _, p := range paths {
		if !constants.IsAllowedExt(filepath.Ext(p)) {
			logger.Warn("ingest.skipped_unsupported", "path", p, "ext", filepath.Ext(p))
			continue
		}
		records = append(records, NewRecord(p, now))
	}
	return records
}

// FromDirectory walks root and builds pending records for every allowed
// file, skipping hidden entries. Walk order (lexical) is the ingestion
// order.
func FromDirectory(root string, now time.Time, logger *slog.Logger) ([]entity.ResumeRecord, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var records []entity.ResumeRecord
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) {
			if d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			logger.Warn("ingest.skipped_unsupported", "path", path)
			return nil
		}
		stats.Matched++
		records = append(records, NewRecord(path, now))
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	logger.Info("ingest.directory.ok", "root", root,
		"scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	return records, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
