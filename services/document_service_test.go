package services

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
)

func newTestDocumentService(t *testing.T, users *fakeUserRepo, documents *fakeDocumentRepo, cache *fakePublicDocCache) (DocumentService, StoragePaths) {
	t.Helper()
	paths := StoragePaths{Root: t.TempDir()}
	return NewDocumentService(fakeTxManager{}, users, documents, cache, paths), paths
}

func TestDocumentServiceCreateAssignsUniqueSecurePaths(t *testing.T) {
	setTestConfig()

	users := newFakeUserRepo()
	users.usersByID[1] = models.User{ID: 1, DiskSpace: 1000}
	documents := newFakeDocumentRepo()
	svc, _ := newTestDocumentService(t, users, documents, newFakePublicDocCache())

	firstID, err := svc.CreateDocument(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}
	secondID, err := svc.CreateDocument(context.Background(), 1)
	if err != nil {
		t.Fatalf("second CreateDocument returned error: %v", err)
	}

	first := documents.documents[firstID]
	second := documents.documents[secondID]
	if len(first.SecurePath) != 36 || len(second.SecurePath) != 36 {
		t.Fatalf("expected uuid secure paths, got %q and %q", first.SecurePath, second.SecurePath)
	}
	if first.SecurePath == second.SecurePath {
		t.Fatalf("secure paths must differ")
	}
	if first.IsShared || first.IsEditable {
		t.Fatalf("new documents must start private")
	}
}

func TestDocumentServiceUpdateRejectsForeignOwner(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 2}
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, newFakePublicDocCache())

	_, err := svc.UpdateDocument(context.Background(), 1, 1, UpdateDocumentInput{Filename: "x"})
	expectAppError(t, err, http.StatusBadRequest, "you cannot update someone else's document")
}

func TestDocumentServiceUpdateRecomputesSizeAndInvalidatesCache(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, Size: 99}
	cache := newFakePublicDocCache()
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, cache)

	shared := true
	updated, err := svc.UpdateDocument(context.Background(), 1, 1, UpdateDocumentInput{
		Filename: "notes",
		Content:  "Hello",
		IsShared: &shared,
	})
	if err != nil {
		t.Fatalf("UpdateDocument returned error: %v", err)
	}

	if updated.Size != 5 {
		t.Fatalf("expected plain-text size 5, got %d", updated.Size)
	}
	if !updated.IsShared {
		t.Fatalf("expected the shared flag to be set")
	}
	if updated.IsEditable {
		t.Fatalf("an omitted flag must keep its stored value")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "sp-1" {
		t.Fatalf("expected the public cache entry to be invalidated, got %v", cache.invalidated)
	}
}

func TestDocumentServicePublicUpdateRequiresEditableFlag(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, IsShared: true}
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, newFakePublicDocCache())

	_, err := svc.UpdateDocumentPublic(context.Background(), "sp-1", UpdatePublicDocumentInput{Filename: "x"})
	expectAppError(t, err, http.StatusBadRequest, "you cannot update this document")

	doc := documents.documents[1]
	doc.IsEditable = true
	documents.documents[1] = doc

	updated, err := svc.UpdateDocumentPublic(context.Background(), "sp-1", UpdatePublicDocumentInput{
		Filename: "renamed",
		Content:  "Hi",
	})
	if err != nil {
		t.Fatalf("public update returned error: %v", err)
	}
	if updated.Filename != "renamed" || updated.Size != 2 {
		t.Fatalf("unexpected updated document: %+v", updated)
	}
}

func TestDocumentServiceSharedReadIsServedThroughTheCache(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, IsShared: true, Content: "original"}
	cache := newFakePublicDocCache()
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, cache)

	first, err := svc.GetSharedBySecurePath(context.Background(), "sp-1")
	if err != nil {
		t.Fatalf("GetSharedBySecurePath returned error: %v", err)
	}
	if first.Content != "original" {
		t.Fatalf("unexpected content: %q", first.Content)
	}
	if cache.setCalls != 1 {
		t.Fatalf("expected the miss to populate the cache, got %d sets", cache.setCalls)
	}

	// Mutate the row behind the cache's back; the cached copy wins until
	// it is invalidated.
	doc := documents.documents[1]
	doc.Content = "changed"
	documents.documents[1] = doc

	second, err := svc.GetSharedBySecurePath(context.Background(), "sp-1")
	if err != nil {
		t.Fatalf("second read returned error: %v", err)
	}
	if second.Content != "original" {
		t.Fatalf("expected the cached copy, got %q", second.Content)
	}
}

func TestDocumentServiceSharedReadFailsForPrivateDocuments(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1}
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, newFakePublicDocCache())

	_, err := svc.GetSharedBySecurePath(context.Background(), "sp-1")
	expectAppError(t, err, http.StatusNotFound, "the document is not found")
}

func TestDocumentServiceSaveAsFileWritesExportWithoutChargingQuota(t *testing.T) {
	setTestConfig()

	users := newFakeUserRepo()
	users.usersByID[1] = models.User{ID: 1, DiskSpace: 1000}
	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, Content: "Hello", Size: 5}
	svc, paths := newTestDocumentService(t, users, documents, newFakePublicDocCache())

	saved, err := svc.SaveAsFile(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("SaveAsFile returned error: %v", err)
	}

	if saved.Path == "" {
		t.Fatalf("expected an export path")
	}
	if !strings.Contains(saved.Path, filepath.Join("1", "documents")) {
		t.Fatalf("expected the export under the documents directory, got %q", saved.Path)
	}
	if filepath.Ext(saved.Path) != ".txt" {
		t.Fatalf("expected a .txt export, got %q", saved.Path)
	}

	data, err := os.ReadFile(paths.Absolute(saved.Path))
	if err != nil {
		t.Fatalf("expected the export on disk: %v", err)
	}
	if string(data) != "Hello" {
		t.Fatalf("unexpected export content: %q", data)
	}

	if users.usersByID[1].UsedSpace != 0 {
		t.Fatalf("a document export must not charge the quota ledger, got %d", users.usersByID[1].UsedSpace)
	}
}

func TestDocumentServiceSaveAsFileReusesTheExistingExportPath(t *testing.T) {
	setTestConfig()

	users := newFakeUserRepo()
	users.usersByID[1] = models.User{ID: 1, DiskSpace: 1000}
	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, Content: "Hello", Size: 5}
	svc, paths := newTestDocumentService(t, users, documents, newFakePublicDocCache())

	first, err := svc.SaveAsFile(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("first SaveAsFile returned error: %v", err)
	}

	doc := documents.documents[1]
	doc.Content = "Hi"
	doc.Size = 2
	documents.documents[1] = doc

	second, err := svc.SaveAsFile(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("second SaveAsFile returned error: %v", err)
	}
	if second.Path != first.Path {
		t.Fatalf("expected the export path to be reused, got %q then %q", first.Path, second.Path)
	}

	data, err := os.ReadFile(paths.Absolute(second.Path))
	if err != nil {
		t.Fatalf("expected the export on disk: %v", err)
	}
	if string(data) != "Hi" {
		t.Fatalf("expected the export to be overwritten, got %q", data)
	}
}

func TestDocumentServiceSaveAsFileRejectsWhenQuotaExceeded(t *testing.T) {
	setTestConfig()

	users := newFakeUserRepo()
	users.usersByID[1] = models.User{ID: 1, DiskSpace: 1000, UsedSpace: 1000}
	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, Content: "Hello", Size: 5}
	svc, _ := newTestDocumentService(t, users, documents, newFakePublicDocCache())

	_, err := svc.SaveAsFile(context.Background(), 1, 1)
	expectAppError(t, err, http.StatusBadRequest, "there is no space on the disk")
}

func TestDocumentServiceDownloadRequiresAnExport(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, Filename: "notes"}
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, newFakePublicDocCache())

	_, err := svc.DownloadDocument(context.Background(), 1, 1)
	expectAppError(t, err, http.StatusBadRequest, "the document was not saved as a file")
}

func TestDocumentServiceRemoveInvalidatesThePublicCache(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, IsShared: true}
	cache := newFakePublicDocCache()
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, cache)

	if _, err := svc.GetSharedBySecurePath(context.Background(), "sp-1"); err != nil {
		t.Fatalf("priming read returned error: %v", err)
	}

	if err := svc.RemoveDocuments(context.Background(), 1, []uint{1}); err != nil {
		t.Fatalf("RemoveDocuments returned error: %v", err)
	}

	if !documents.documents[1].DeletedAt.Valid {
		t.Fatalf("expected the document to be soft deleted")
	}
	if len(cache.invalidated) == 0 || cache.invalidated[len(cache.invalidated)-1] != "sp-1" {
		t.Fatalf("expected the cache entry to be invalidated, got %v", cache.invalidated)
	}
}

func TestDocumentServiceDeletePermanentRemovesRowsAndExports(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	cache := newFakePublicDocCache()
	svc, paths := newTestDocumentService(t, newFakeUserRepo(), documents, cache)

	rel := filepath.Join("1", "documents", "export.txt")
	if err := os.MkdirAll(filepath.Join(paths.Root, "1", "documents"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(paths.Absolute(rel), []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1, Path: rel}

	if err := svc.DeletePermanent(context.Background(), 1, []uint{1}); err != nil {
		t.Fatalf("DeletePermanent returned error: %v", err)
	}

	if _, ok := documents.documents[1]; ok {
		t.Fatalf("expected the row to be deleted")
	}
	if _, err := os.Stat(paths.Absolute(rel)); !os.IsNotExist(err) {
		t.Fatalf("expected the export to be removed")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "sp-1" {
		t.Fatalf("expected the cache entry to be invalidated, got %v", cache.invalidated)
	}
}

func TestDocumentServiceDeletePermanentRequiresAllIDsMatched(t *testing.T) {
	setTestConfig()

	documents := newFakeDocumentRepo()
	documents.documents[1] = models.Document{ID: 1, SecurePath: "sp-1", UserID: 1}
	svc, _ := newTestDocumentService(t, newFakeUserRepo(), documents, newFakePublicDocCache())

	err := svc.DeletePermanent(context.Background(), 1, []uint{1, 9})
	expectAppError(t, err, http.StatusBadRequest, "some documents are not found")
}

func TestDocumentServiceTrashRoundTripMovesTheDocumentBetweenListings(t *testing.T) {
	setTestConfig()

	users := newFakeUserRepo()
	users.usersByID[1] = models.User{ID: 1, DiskSpace: 1000}
	documents := newFakeDocumentRepo()
	svc, _ := newTestDocumentService(t, users, documents, newFakePublicDocCache())

	documentID, err := svc.CreateDocument(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}

	if err := svc.RemoveDocuments(context.Background(), 1, []uint{documentID}); err != nil {
		t.Fatalf("RemoveDocuments returned error: %v", err)
	}

	active, err := svc.GetDocuments(context.Background(), 1, GetDocumentsInput{})
	if err != nil {
		t.Fatalf("GetDocuments returned error: %v", err)
	}
	if len(active.Documents) != 0 || active.Quantity != 0 {
		t.Fatalf("a removed document must leave the default listing, got %d/%d", len(active.Documents), active.Quantity)
	}

	trashed, err := svc.GetDocuments(context.Background(), 1, GetDocumentsInput{IsDeleted: true})
	if err != nil {
		t.Fatalf("trash GetDocuments returned error: %v", err)
	}
	if len(trashed.Documents) != 1 || trashed.Documents[0].ID != documentID {
		t.Fatalf("expected the removed document in the trash listing, got %+v", trashed.Documents)
	}

	if err := svc.RestoreDocument(context.Background(), 1, documentID); err != nil {
		t.Fatalf("RestoreDocument returned error: %v", err)
	}

	restored, err := svc.GetDocuments(context.Background(), 1, GetDocumentsInput{})
	if err != nil {
		t.Fatalf("GetDocuments after restore returned error: %v", err)
	}
	if len(restored.Documents) != 1 || restored.Documents[0].ID != documentID {
		t.Fatalf("expected the restored document in the default listing, got %+v", restored.Documents)
	}

	emptied, err := svc.GetDocuments(context.Background(), 1, GetDocumentsInput{IsDeleted: true})
	if err != nil {
		t.Fatalf("trash GetDocuments after restore returned error: %v", err)
	}
	if len(emptied.Documents) != 0 {
		t.Fatalf("the trash listing must be empty after restore, got %+v", emptied.Documents)
	}

	if _, err := svc.GetDocument(context.Background(), 1, documentID); err != nil {
		t.Fatalf("expected the restored document to resolve by id: %v", err)
	}
}

func TestDocumentServiceRestoreReturnsNotFoundForForeignOrMissing(t *testing.T) {
	setTestConfig()

	svc, _ := newTestDocumentService(t, newFakeUserRepo(), newFakeDocumentRepo(), newFakePublicDocCache())

	err := svc.RestoreDocument(context.Background(), 1, 42)
	expectAppError(t, err, http.StatusNotFound, "the document is not found")
}
