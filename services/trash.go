package services

import (
	"net/http"
	"os"
)

// storedRecord is the capability set shared by soft-deletable rows that may
// own disk content: files always do, documents only after an export.
type storedRecord interface {
	RecordID() uint
	DiskPath() string
}

// ensureAllMatched guards batch permanent deletion: every requested id must
// have resolved to an owned row, soft-deleted ones included.
func ensureAllMatched(requested []uint, matched int, message string) error {
	if matched != len(requested) {
		return newAppError(http.StatusBadRequest, message, nil)
	}
	return nil
}

// collectIDs and removeDiskContent are the pieces of permanent deletion that
// are identical for both stores.
func collectIDs[T storedRecord](records []T) []uint {
	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.RecordID())
	}
	return ids
}

func removeDiskContent[T storedRecord](paths StoragePaths, records []T) {
	for _, record := range records {
		rel := record.DiskPath()
		if rel == "" {
			continue
		}
		abs := paths.Absolute(rel)
		if _, err := os.Stat(abs); err == nil {
			_ = os.Remove(abs)
		}
	}
}
