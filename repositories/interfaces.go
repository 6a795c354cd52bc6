package repositories

import (
	"context"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error
	AddUsedSpace(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
}

// FileFilter mirrors the list query surface: substring search on the
// original name, substring match on the mimetype, exact shared flag and the
// deleted-only switch that widens the scan to soft-deleted rows.
type FileFilter struct {
	SearchTerm  string
	Mimetype    string
	IsShared    *bool
	OnlyDeleted bool
}

type ListFilesInput struct {
	UserID uint
	Filter FileFilter
	Sort   string
	Offset int
	Limit  int
}

type FileRepository interface {
	List(ctx context.Context, tx *gorm.DB, in ListFilesInput) ([]models.File, error)
	Count(ctx context.Context, tx *gorm.DB, userID uint, filter FileFilter) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, file *models.File) error
	GetByID(ctx context.Context, tx *gorm.DB, fileID uint) (models.File, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) (models.File, error)
	GetSharedByFilename(ctx context.Context, tx *gorm.DB, filename string) (models.File, error)
	Save(ctx context.Context, tx *gorm.DB, file *models.File) error
	SoftDeleteByIDsAndUser(ctx context.Context, tx *gorm.DB, fileIDs []uint, userID uint) error
	RestoreByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) (int64, error)
	ListByIDsAndUserUnscoped(ctx context.Context, tx *gorm.DB, userID uint, fileIDs []uint) ([]models.File, error)
	DeleteByIDsUnscoped(ctx context.Context, tx *gorm.DB, fileIDs []uint) error
}

type DocumentFilter struct {
	SearchTerm  string
	IsShared    *bool
	IsEditable  *bool
	OnlyDeleted bool
}

type ListDocumentsInput struct {
	UserID uint
	Filter DocumentFilter
	Sort   string
	Offset int
	Limit  int
}

type DocumentRepository interface {
	List(ctx context.Context, tx *gorm.DB, in ListDocumentsInput) ([]models.Document, error)
	Count(ctx context.Context, tx *gorm.DB, userID uint, filter DocumentFilter) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, document *models.Document) error
	GetByID(ctx context.Context, tx *gorm.DB, documentID uint) (models.Document, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, documentID uint, userID uint) (models.Document, error)
	GetBySecurePath(ctx context.Context, tx *gorm.DB, securePath string) (models.Document, error)
	GetSharedBySecurePath(ctx context.Context, tx *gorm.DB, securePath string) (models.Document, error)
	GetEditableBySecurePath(ctx context.Context, tx *gorm.DB, securePath string) (models.Document, error)
	Save(ctx context.Context, tx *gorm.DB, document *models.Document) error
	SoftDeleteByIDsAndUser(ctx context.Context, tx *gorm.DB, documentIDs []uint, userID uint) error
	RestoreByIDAndUser(ctx context.Context, tx *gorm.DB, documentID uint, userID uint) (int64, error)
	ListByIDsAndUserUnscoped(ctx context.Context, tx *gorm.DB, userID uint, documentIDs []uint) ([]models.Document, error)
	DeleteByIDsUnscoped(ctx context.Context, tx *gorm.DB, documentIDs []uint) error
}

// PublicDocumentCache fronts the anonymous secure-path reads.
type PublicDocumentCache interface {
	Get(ctx context.Context, securePath string) (models.Document, bool, error)
	Set(ctx context.Context, document models.Document, expireSeconds int) error
	Invalidate(ctx context.Context, securePath string) error
}

type Container struct {
	TxManager  TxManager
	Users      UserRepository
	Files      FileRepository
	Documents  DocumentRepository
	PublicDocs PublicDocumentCache
}
