package services

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/config"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDocumentsInput struct {
	Sort       string
	SearchTerm string
	IsShared   *bool
	IsEditable *bool
	IsDeleted  bool
	Page       int
	PerPage    int
}

type DocumentListOutput struct {
	Documents []models.Document `json:"documents"`
	Quantity  int64             `json:"quantity"`
}

type UpdateDocumentInput struct {
	Filename   string
	Content    string
	IsShared   *bool
	IsEditable *bool
}

type UpdatePublicDocumentInput struct {
	Filename string
	Content  string
}

type DocumentService interface {
	GetDocuments(ctx context.Context, userID uint, in GetDocumentsInput) (DocumentListOutput, error)
	GetDocument(ctx context.Context, userID uint, documentID uint) (models.Document, error)
	GetSharedBySecurePath(ctx context.Context, securePath string) (models.Document, error)
	GetEditableBySecurePath(ctx context.Context, securePath string) (models.Document, error)
	CreateDocument(ctx context.Context, userID uint) (uint, error)
	UpdateDocument(ctx context.Context, userID uint, documentID uint, in UpdateDocumentInput) (models.Document, error)
	UpdateDocumentPublic(ctx context.Context, securePath string, in UpdatePublicDocumentInput) (models.Document, error)
	SaveAsFile(ctx context.Context, userID uint, documentID uint) (models.Document, error)
	DownloadDocument(ctx context.Context, userID uint, documentID uint) (FileDownloadOutput, error)
	RemoveDocuments(ctx context.Context, userID uint, documentIDs []uint) error
	RestoreDocument(ctx context.Context, userID uint, documentID uint) error
	DeletePermanent(ctx context.Context, userID uint, documentIDs []uint) error
}

type documentService struct {
	txManager  TxManager
	users      repositories.UserRepository
	documents  repositories.DocumentRepository
	publicDocs repositories.PublicDocumentCache
	paths      StoragePaths
}

func NewDocumentService(
	txManager TxManager,
	users repositories.UserRepository,
	documents repositories.DocumentRepository,
	publicDocs repositories.PublicDocumentCache,
	paths StoragePaths,
) DocumentService {
	return &documentService{
		txManager:  txManager,
		users:      users,
		documents:  documents,
		publicDocs: publicDocs,
		paths:      paths,
	}
}

func (s *documentService) GetDocuments(ctx context.Context, userID uint, in GetDocumentsInput) (DocumentListOutput, error) {
	take, skip := utils.GetPagination(in.Page, in.PerPage)

	filter := repositories.DocumentFilter{
		SearchTerm:  in.SearchTerm,
		IsShared:    in.IsShared,
		IsEditable:  in.IsEditable,
		OnlyDeleted: in.IsDeleted,
	}

	documents, err := s.documents.List(ctx, nil, repositories.ListDocumentsInput{
		UserID: userID,
		Filter: filter,
		Sort:   in.Sort,
		Offset: skip,
		Limit:  take,
	})
	if err != nil {
		return DocumentListOutput{}, newAppError(http.StatusInternalServerError, "failed to query documents", err)
	}

	quantity, err := s.documents.Count(ctx, nil, userID, filter)
	if err != nil {
		return DocumentListOutput{}, newAppError(http.StatusInternalServerError, "failed to count documents", err)
	}

	return DocumentListOutput{Documents: documents, Quantity: quantity}, nil
}

func (s *documentService) GetDocument(ctx context.Context, userID uint, documentID uint) (models.Document, error) {
	document, err := s.documents.GetByIDAndUser(ctx, nil, documentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}
	return document, nil
}

func (s *documentService) GetSharedBySecurePath(ctx context.Context, securePath string) (models.Document, error) {
	// Anonymous reads are served read-through from redis; a cache failure
	// counts as a miss.
	if cached, ok, err := s.publicDocs.Get(ctx, securePath); err == nil && ok && cached.IsShared {
		return cached, nil
	}

	document, err := s.documents.GetSharedBySecurePath(ctx, nil, securePath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}

	_ = s.publicDocs.Set(ctx, document, config.AppConfig.Redis.PublicDocExpire)
	return document, nil
}

func (s *documentService) GetEditableBySecurePath(ctx context.Context, securePath string) (models.Document, error) {
	document, err := s.documents.GetEditableBySecurePath(ctx, nil, securePath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}
	return document, nil
}

func (s *documentService) CreateDocument(ctx context.Context, userID uint) (uint, error) {
	if _, err := s.users.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return 0, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	document := models.Document{
		SecurePath: uuid.NewString(),
		UserID:     userID,
	}
	if err := s.documents.Create(ctx, nil, &document); err != nil {
		return 0, newAppError(http.StatusInternalServerError, "failed to create document", err)
	}

	return document.ID, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, userID uint, documentID uint, in UpdateDocumentInput) (models.Document, error) {
	document, err := s.documents.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}

	if document.UserID != userID {
		return models.Document{}, newAppError(http.StatusBadRequest, "you cannot update someone else's document", nil)
	}

	document.Filename = in.Filename
	document.Content = in.Content
	document.Size = plainTextByteSize(in.Content)
	if in.IsShared != nil {
		document.IsShared = *in.IsShared
	}
	if in.IsEditable != nil {
		document.IsEditable = *in.IsEditable
	}

	if err := s.documents.Save(ctx, nil, &document); err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to update document", err)
	}

	_ = s.publicDocs.Invalidate(ctx, document.SecurePath)
	return document, nil
}

func (s *documentService) UpdateDocumentPublic(ctx context.Context, securePath string, in UpdatePublicDocumentInput) (models.Document, error) {
	document, err := s.documents.GetBySecurePath(ctx, nil, securePath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}

	// The public route carries no identity at all; the editable flag is the
	// only gate.
	if !document.IsEditable {
		return models.Document{}, newAppError(http.StatusBadRequest, "you cannot update this document", nil)
	}

	document.Filename = in.Filename
	document.Content = in.Content
	document.Size = plainTextByteSize(in.Content)

	if err := s.documents.Save(ctx, nil, &document); err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to update document", err)
	}

	_ = s.publicDocs.Invalidate(ctx, document.SecurePath)
	return document, nil
}

func (s *documentService) SaveAsFile(ctx context.Context, userID uint, documentID uint) (models.Document, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	document, err := s.documents.GetByIDAndUser(ctx, nil, documentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}

	if user.UsedSpace+document.Size > user.DiskSpace {
		return models.Document{}, newAppErrorWithData(http.StatusBadRequest, "there is no space on the disk", quotaPayload(user, document.Size), nil)
	}

	text := []byte(renderPlainText(document.Content))

	// Re-saving overwrites the existing export in place.
	if document.Path != "" {
		if _, err := os.Stat(s.paths.Absolute(document.Path)); err == nil {
			if err := os.WriteFile(s.paths.Absolute(document.Path), text, 0o644); err != nil {
				return models.Document{}, newAppError(http.StatusInternalServerError, "failed to write document file", err)
			}
			return document, nil
		}
	}

	relPath, err := s.paths.NewDocumentPath(userID)
	if err != nil {
		return models.Document{}, err
	}

	absPath := s.paths.Absolute(relPath)
	if err := os.WriteFile(absPath, text, 0o644); err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to write document file", err)
	}

	document.Path = relPath
	if err := s.documents.Save(ctx, nil, &document); err != nil {
		_ = os.Remove(absPath)
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to update document", err)
	}

	return document, nil
}

func (s *documentService) DownloadDocument(ctx context.Context, userID uint, documentID uint) (FileDownloadOutput, error) {
	document, err := s.documents.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileDownloadOutput{}, newAppError(http.StatusNotFound, "the document is not found", nil)
		}
		return FileDownloadOutput{}, newAppError(http.StatusInternalServerError, "failed to query document", err)
	}

	if document.UserID != userID && !document.IsShared {
		return FileDownloadOutput{}, newAppError(http.StatusBadRequest, "you do not have such document", nil)
	}

	if document.Path == "" {
		return FileDownloadOutput{}, newAppError(http.StatusBadRequest, "the document was not saved as a file", nil)
	}

	absPath := s.paths.Absolute(document.Path)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return FileDownloadOutput{}, newAppError(http.StatusBadRequest, "the document was not saved as a file", nil)
	}

	return FileDownloadOutput{
		AbsPath:      absPath,
		DownloadName: document.Filename,
		Mimetype:     "text/plain; charset=utf-8",
	}, nil
}

func (s *documentService) RemoveDocuments(ctx context.Context, userID uint, documentIDs []uint) error {
	documents, err := s.documents.ListByIDsAndUserUnscoped(ctx, nil, userID, documentIDs)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to query documents", err)
	}

	if err := s.documents.SoftDeleteByIDsAndUser(ctx, nil, documentIDs, userID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to remove documents", err)
	}

	for _, document := range documents {
		_ = s.publicDocs.Invalidate(ctx, document.SecurePath)
	}
	return nil
}

func (s *documentService) RestoreDocument(ctx context.Context, userID uint, documentID uint) error {
	affected, err := s.documents.RestoreByIDAndUser(ctx, nil, documentID, userID)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to restore document", err)
	}
	if affected == 0 {
		return newAppError(http.StatusNotFound, "the document is not found", nil)
	}
	return nil
}

func (s *documentService) DeletePermanent(ctx context.Context, userID uint, documentIDs []uint) error {
	documents, err := s.documents.ListByIDsAndUserUnscoped(ctx, nil, userID, documentIDs)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to query documents", err)
	}
	if err := ensureAllMatched(documentIDs, len(documents), "some documents are not found"); err != nil {
		return err
	}

	removeDiskContent(s.paths, documents)

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.documents.DeleteByIDsUnscoped(ctx, tx, collectIDs(documents))
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete documents", err)
	}

	for _, document := range documents {
		_ = s.publicDocs.Invalidate(ctx, document.SecurePath)
	}
	return nil
}
