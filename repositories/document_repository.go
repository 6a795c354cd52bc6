package repositories

import (
	"context"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"

	"gorm.io/gorm"
)

type GormDocumentRepository struct {
	db *gorm.DB
}

func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) filterQuery(db *gorm.DB, userID uint, filter DocumentFilter) *gorm.DB {
	query := db.Where("user_id = ?", userID)
	if filter.SearchTerm != "" {
		query = query.Where("filename ILIKE ?", "%"+filter.SearchTerm+"%")
	}
	if filter.IsShared != nil {
		query = query.Where("is_shared = ?", *filter.IsShared)
	}
	if filter.IsEditable != nil {
		query = query.Where("is_editable = ?", *filter.IsEditable)
	}
	if filter.OnlyDeleted {
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	return query
}

func (r *GormDocumentRepository) List(_ context.Context, tx *gorm.DB, in ListDocumentsInput) ([]models.Document, error) {
	db := useTx(r.db, tx)
	var documents []models.Document
	err := r.filterQuery(db.Model(&models.Document{}), in.UserID, in.Filter).
		Order(sortSQL(in.Sort)).
		Offset(in.Offset).
		Limit(in.Limit).
		Find(&documents).Error
	return documents, err
}

func (r *GormDocumentRepository) Count(_ context.Context, tx *gorm.DB, userID uint, filter DocumentFilter) (int64, error) {
	db := useTx(r.db, tx)
	var total int64
	err := r.filterQuery(db.Model(&models.Document{}), userID, filter).Count(&total).Error
	return total, err
}

func (r *GormDocumentRepository) Create(_ context.Context, tx *gorm.DB, document *models.Document) error {
	return useTx(r.db, tx).Create(document).Error
}

func (r *GormDocumentRepository) GetByID(_ context.Context, tx *gorm.DB, documentID uint) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).First(&document, documentID).Error
	return document, err
}

func (r *GormDocumentRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, documentID uint, userID uint) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", documentID, userID).First(&document).Error
	return document, err
}

func (r *GormDocumentRepository) GetBySecurePath(_ context.Context, tx *gorm.DB, securePath string) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).Where("secure_path = ?", securePath).First(&document).Error
	return document, err
}

func (r *GormDocumentRepository) GetSharedBySecurePath(_ context.Context, tx *gorm.DB, securePath string) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).Where("secure_path = ? AND is_shared = ?", securePath, true).First(&document).Error
	return document, err
}

func (r *GormDocumentRepository) GetEditableBySecurePath(_ context.Context, tx *gorm.DB, securePath string) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).Where("secure_path = ? AND is_editable = ?", securePath, true).First(&document).Error
	return document, err
}

func (r *GormDocumentRepository) Save(_ context.Context, tx *gorm.DB, document *models.Document) error {
	return useTx(r.db, tx).Save(document).Error
}

func (r *GormDocumentRepository) SoftDeleteByIDsAndUser(_ context.Context, tx *gorm.DB, documentIDs []uint, userID uint) error {
	if len(documentIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("id IN ? AND user_id = ?", documentIDs, userID).Delete(&models.Document{}).Error
}

func (r *GormDocumentRepository) RestoreByIDAndUser(_ context.Context, tx *gorm.DB, documentID uint, userID uint) (int64, error) {
	result := useTx(r.db, tx).Unscoped().Model(&models.Document{}).
		Where("id = ? AND user_id = ?", documentID, userID).
		Update("deleted_at", nil)
	return result.RowsAffected, result.Error
}

func (r *GormDocumentRepository) ListByIDsAndUserUnscoped(_ context.Context, tx *gorm.DB, userID uint, documentIDs []uint) ([]models.Document, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	var documents []models.Document
	err := useTx(r.db, tx).Unscoped().
		Where("id IN ? AND user_id = ?", documentIDs, userID).
		Find(&documents).Error
	return documents, err
}

func (r *GormDocumentRepository) DeleteByIDsUnscoped(_ context.Context, tx *gorm.DB, documentIDs []uint) error {
	if len(documentIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Unscoped().Where("id IN ?", documentIDs).Delete(&models.Document{}).Error
}
