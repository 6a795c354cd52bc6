package services

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StoragePaths maps stored relative paths to locations under the configured
// upload root and allocates fresh paths for new content. Layout:
//
//	{root}/{userID}/{name}            binary uploads
//	{root}/{userID}/documents/{name}  document exports
//	{root}/{userID}/avatar/{name}     avatars
type StoragePaths struct {
	Root string
}

func (p StoragePaths) Absolute(relPath string) string {
	return filepath.Join(p.Root, relPath)
}

func (p StoragePaths) NewFilePath(userID uint, ext string) (string, error) {
	return p.newPath(filepath.Join(fmt.Sprintf("%d", userID)), ext)
}

func (p StoragePaths) NewDocumentPath(userID uint) (string, error) {
	return p.newPath(filepath.Join(fmt.Sprintf("%d", userID), "documents"), ".txt")
}

func (p StoragePaths) NewAvatarPath(userID uint, ext string) (string, error) {
	return p.newPath(filepath.Join(fmt.Sprintf("%d", userID), "avatar"), ext)
}

// newPath creates the containing directory if missing and probes the fresh
// name for collisions. A collision fails the request instead of overwriting;
// the probe-then-write window is accepted as is.
func (p StoragePaths) newPath(relDir string, ext string) (string, error) {
	absDir := filepath.Join(p.Root, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", newAppError(http.StatusInternalServerError, "failed to create storage directory", err)
	}

	name := uuid.NewString() + ext
	relPath := filepath.Join(relDir, name)
	if _, err := os.Stat(filepath.Join(p.Root, relPath)); err == nil {
		return "", newAppError(http.StatusBadRequest, "file already exists", nil)
	}

	return relPath, nil
}
