package repositories

import (
	"context"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"

	"gorm.io/gorm"
)

type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) filterQuery(db *gorm.DB, userID uint, filter FileFilter) *gorm.DB {
	query := db.Where("user_id = ?", userID)
	if filter.SearchTerm != "" {
		query = query.Where("original_name ILIKE ?", "%"+filter.SearchTerm+"%")
	}
	if filter.Mimetype != "" {
		query = query.Where("mimetype LIKE ?", "%"+filter.Mimetype+"%")
	}
	if filter.IsShared != nil {
		query = query.Where("is_shared = ?", *filter.IsShared)
	}
	if filter.OnlyDeleted {
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	return query
}

func sortSQL(sort string) string {
	if sort == "oldest" {
		return "created_at ASC"
	}
	return "created_at DESC"
}

func (r *GormFileRepository) List(_ context.Context, tx *gorm.DB, in ListFilesInput) ([]models.File, error) {
	db := useTx(r.db, tx)
	var files []models.File
	err := r.filterQuery(db.Model(&models.File{}), in.UserID, in.Filter).
		Order(sortSQL(in.Sort)).
		Offset(in.Offset).
		Limit(in.Limit).
		Find(&files).Error
	return files, err
}

func (r *GormFileRepository) Count(_ context.Context, tx *gorm.DB, userID uint, filter FileFilter) (int64, error) {
	db := useTx(r.db, tx)
	var total int64
	err := r.filterQuery(db.Model(&models.File{}), userID, filter).Count(&total).Error
	return total, err
}

func (r *GormFileRepository) Create(_ context.Context, tx *gorm.DB, file *models.File) error {
	return useTx(r.db, tx).Create(file).Error
}

func (r *GormFileRepository) GetByID(_ context.Context, tx *gorm.DB, fileID uint) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).First(&file, fileID).Error
	return file, err
}

func (r *GormFileRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error
	return file, err
}

func (r *GormFileRepository) GetSharedByFilename(_ context.Context, tx *gorm.DB, filename string) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).Where("filename = ? AND is_shared = ?", filename, true).First(&file).Error
	return file, err
}

func (r *GormFileRepository) Save(_ context.Context, tx *gorm.DB, file *models.File) error {
	return useTx(r.db, tx).Save(file).Error
}

func (r *GormFileRepository) SoftDeleteByIDsAndUser(_ context.Context, tx *gorm.DB, fileIDs []uint, userID uint) error {
	if len(fileIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("id IN ? AND user_id = ?", fileIDs, userID).Delete(&models.File{}).Error
}

func (r *GormFileRepository) RestoreByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) (int64, error) {
	result := useTx(r.db, tx).Unscoped().Model(&models.File{}).
		Where("id = ? AND user_id = ?", fileID, userID).
		Update("deleted_at", nil)
	return result.RowsAffected, result.Error
}

func (r *GormFileRepository) ListByIDsAndUserUnscoped(_ context.Context, tx *gorm.DB, userID uint, fileIDs []uint) ([]models.File, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}
	var files []models.File
	err := useTx(r.db, tx).Unscoped().
		Where("id IN ? AND user_id = ?", fileIDs, userID).
		Find(&files).Error
	return files, err
}

func (r *GormFileRepository) DeleteByIDsUnscoped(_ context.Context, tx *gorm.DB, fileIDs []uint) error {
	if len(fileIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Unscoped().Where("id IN ?", fileIDs).Delete(&models.File{}).Error
}
