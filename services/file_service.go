package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/config"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"gorm.io/gorm"
)

// FileUpload carries one incoming multipart file, fully buffered.
type FileUpload struct {
	OriginalName string
	Mimetype     string
	Size         int64
	Content      []byte
}

type GetFilesInput struct {
	Sort       string
	SearchTerm string
	Mimetype   string
	IsShared   *bool
	IsDeleted  bool
	Page       int
	PerPage    int
}

type FileListOutput struct {
	Files    []models.File `json:"files"`
	Quantity int64         `json:"quantity"`
}

type FileDownloadOutput struct {
	AbsPath      string
	DownloadName string
	Mimetype     string
}

type FileService interface {
	GetFiles(ctx context.Context, userID uint, in GetFilesInput) (FileListOutput, error)
	GetFile(ctx context.Context, userID uint, fileID uint) (models.File, error)
	GetSharedByFilename(ctx context.Context, filename string) (models.File, error)
	DownloadFile(ctx context.Context, userID uint, fileID uint) (FileDownloadOutput, error)
	CreateFile(ctx context.Context, userID uint, upload FileUpload) (models.File, error)
	CreateFiles(ctx context.Context, userID uint, uploads []FileUpload) ([]models.File, error)
	ToggleShared(ctx context.Context, userID uint, fileID uint) (models.File, error)
	RemoveFiles(ctx context.Context, userID uint, fileIDs []uint) error
	RestoreFile(ctx context.Context, userID uint, fileID uint) error
	DeletePermanent(ctx context.Context, userID uint, fileIDs []uint) error
}

type fileService struct {
	txManager TxManager
	users     repositories.UserRepository
	files     repositories.FileRepository
	paths     StoragePaths
}

func NewFileService(
	txManager TxManager,
	users repositories.UserRepository,
	files repositories.FileRepository,
	paths StoragePaths,
) FileService {
	return &fileService{
		txManager: txManager,
		users:     users,
		files:     files,
		paths:     paths,
	}
}

func (s *fileService) GetFiles(ctx context.Context, userID uint, in GetFilesInput) (FileListOutput, error) {
	take, skip := utils.GetPagination(in.Page, in.PerPage)

	filter := repositories.FileFilter{
		SearchTerm:  in.SearchTerm,
		Mimetype:    in.Mimetype,
		IsShared:    in.IsShared,
		OnlyDeleted: in.IsDeleted,
	}

	files, err := s.files.List(ctx, nil, repositories.ListFilesInput{
		UserID: userID,
		Filter: filter,
		Sort:   in.Sort,
		Offset: skip,
		Limit:  take,
	})
	if err != nil {
		return FileListOutput{}, newAppError(http.StatusInternalServerError, "failed to query files", err)
	}

	// The total is computed with the same filter, ignoring pagination.
	quantity, err := s.files.Count(ctx, nil, userID, filter)
	if err != nil {
		return FileListOutput{}, newAppError(http.StatusInternalServerError, "failed to count files", err)
	}

	return FileListOutput{Files: files, Quantity: quantity}, nil
}

func (s *fileService) GetFile(ctx context.Context, userID uint, fileID uint) (models.File, error) {
	file, err := s.files.GetByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newAppError(http.StatusNotFound, "the file is not found", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	return s.withTextContent(file), nil
}

func (s *fileService) GetSharedByFilename(ctx context.Context, filename string) (models.File, error) {
	file, err := s.files.GetSharedByFilename(ctx, nil, filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newAppError(http.StatusNotFound, "the file is not found", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	return s.withTextContent(file), nil
}

// withTextContent decodes on-disk content into the record for text files.
// Missing disk content or an undecodable encoding leaves the record as is.
func (s *fileService) withTextContent(file models.File) models.File {
	if !isTextMimetype(file.Mimetype) {
		return file
	}
	if text, ok := readTextContent(s.paths.Absolute(file.Path)); ok {
		file.Content = text
	}
	return file
}

func (s *fileService) DownloadFile(ctx context.Context, userID uint, fileID uint) (FileDownloadOutput, error) {
	file, err := s.files.GetByID(ctx, nil, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileDownloadOutput{}, newAppError(http.StatusNotFound, "the file is not found", nil)
		}
		return FileDownloadOutput{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	if file.UserID != userID && !file.IsShared {
		return FileDownloadOutput{}, newAppError(http.StatusBadRequest, "you do not have such file", nil)
	}

	absPath := s.paths.Absolute(file.Path)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return FileDownloadOutput{}, newAppError(http.StatusBadRequest, "the file is missing from storage", nil)
	}

	return FileDownloadOutput{
		AbsPath:      absPath,
		DownloadName: file.OriginalName,
		Mimetype:     file.Mimetype,
	}, nil
}

func (s *fileService) CreateFile(ctx context.Context, userID uint, upload FileUpload) (models.File, error) {
	if upload.Size > config.AppConfig.Storage.MaxFileSize {
		return models.File{}, newAppError(http.StatusBadRequest, "the file size exceeds the limit", nil)
	}

	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if user.UsedSpace+upload.Size > user.DiskSpace {
		return models.File{}, newAppErrorWithData(http.StatusBadRequest, "there is no space on the disk", quotaPayload(user, upload.Size), nil)
	}

	relPath, err := s.paths.NewFilePath(userID, filepath.Ext(upload.OriginalName))
	if err != nil {
		return models.File{}, err
	}

	absPath := s.paths.Absolute(relPath)
	if err := os.WriteFile(absPath, upload.Content, 0o644); err != nil {
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to write file", err)
	}

	mimetype := upload.Mimetype
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	record := models.File{
		Filename:     filepath.Base(relPath),
		OriginalName: upload.OriginalName,
		Size:         upload.Size,
		Path:         relPath,
		Mimetype:     mimetype,
		UserID:       userID,
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.Create(ctx, tx, &record); err != nil {
			return err
		}
		return s.users.AddUsedSpace(ctx, tx, userID, upload.Size)
	})
	if err != nil {
		// The disk write already happened; undo it so no orphan remains.
		_ = os.Remove(absPath)
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to save file record", err)
	}

	return record, nil
}

func (s *fileService) CreateFiles(ctx context.Context, userID uint, uploads []FileUpload) ([]models.File, error) {
	if len(uploads) > config.AppConfig.Storage.MaxBatchCount {
		return nil, newAppError(http.StatusBadRequest, "too many files in one upload", nil)
	}

	records := make([]models.File, 0, len(uploads))
	for _, upload := range uploads {
		record, err := s.CreateFile(ctx, userID, upload)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *fileService) ToggleShared(ctx context.Context, userID uint, fileID uint) (models.File, error) {
	file, err := s.files.GetByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newAppError(http.StatusNotFound, "the file is not found", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	file.IsShared = !file.IsShared
	if err := s.files.Save(ctx, nil, &file); err != nil {
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to update file", err)
	}

	return file, nil
}

func (s *fileService) RemoveFiles(ctx context.Context, userID uint, fileIDs []uint) error {
	// Rows outside the id/owner intersection are skipped, not reported.
	if err := s.files.SoftDeleteByIDsAndUser(ctx, nil, fileIDs, userID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to remove files", err)
	}
	return nil
}

func (s *fileService) RestoreFile(ctx context.Context, userID uint, fileID uint) error {
	affected, err := s.files.RestoreByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to restore file", err)
	}
	if affected == 0 {
		return newAppError(http.StatusNotFound, "the file is not found", nil)
	}
	return nil
}

func (s *fileService) DeletePermanent(ctx context.Context, userID uint, fileIDs []uint) error {
	files, err := s.files.ListByIDsAndUserUnscoped(ctx, nil, userID, fileIDs)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to query files", err)
	}
	if err := ensureAllMatched(fileIDs, len(files), "some files are not found"); err != nil {
		return err
	}

	removeDiskContent(s.paths, files)

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.files.DeleteByIDsUnscoped(ctx, tx, collectIDs(files))
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete files", err)
	}
	return nil
}

func quotaPayload(user models.User, required int64) map[string]interface{} {
	return map[string]interface{}{
		"disk_space":      user.DiskSpace,
		"used_space":      user.UsedSpace,
		"available_space": user.DiskSpace - user.UsedSpace,
		"required_space":  required,
	}
}
