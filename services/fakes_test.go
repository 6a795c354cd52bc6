package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"

	"gorm.io/gorm"
)

type fakeTxManager struct {
	err error
}

func (m fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

type fakeUserRepo struct {
	usersByID      map[uint]models.User
	nextID         uint
	addSpaceDeltas []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{usersByID: map[uint]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	var count int64
	for _, user := range r.usersByID {
		if user.Email == email {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.usersByID[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (models.User, error) {
	for _, user := range r.usersByID {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uint) (models.User, error) {
	user, ok := r.usersByID[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateByID(_ context.Context, _ *gorm.DB, userID uint, updates map[string]interface{}) error {
	user, ok := r.usersByID[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if avatar, ok := updates["avatar_path"].(string); ok {
		user.AvatarPath = avatar
	}
	r.usersByID[userID] = user
	return nil
}

func (r *fakeUserRepo) AddUsedSpace(_ context.Context, _ *gorm.DB, userID uint, delta int64) error {
	user, ok := r.usersByID[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.UsedSpace += delta
	r.usersByID[userID] = user
	r.addSpaceDeltas = append(r.addSpaceDeltas, delta)
	return nil
}

type fakeFileRepo struct {
	files     map[uint]models.File
	nextID    uint
	createErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[uint]models.File{}, nextID: 1}
}

func (r *fakeFileRepo) matches(file models.File, userID uint, filter repositories.FileFilter) bool {
	if file.UserID != userID {
		return false
	}
	if filter.OnlyDeleted != file.DeletedAt.Valid {
		return false
	}
	if filter.SearchTerm != "" && !strings.Contains(strings.ToLower(file.OriginalName), strings.ToLower(filter.SearchTerm)) {
		return false
	}
	if filter.Mimetype != "" && !strings.Contains(file.Mimetype, filter.Mimetype) {
		return false
	}
	if filter.IsShared != nil && file.IsShared != *filter.IsShared {
		return false
	}
	return true
}

func (r *fakeFileRepo) List(_ context.Context, _ *gorm.DB, in repositories.ListFilesInput) ([]models.File, error) {
	out := make([]models.File, 0)
	for _, file := range r.files {
		if r.matches(file, in.UserID, in.Filter) {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if in.Offset >= len(out) {
		return []models.File{}, nil
	}
	out = out[in.Offset:]
	if in.Limit > 0 && in.Limit < len(out) {
		out = out[:in.Limit]
	}
	return out, nil
}

func (r *fakeFileRepo) Count(_ context.Context, _ *gorm.DB, userID uint, filter repositories.FileFilter) (int64, error) {
	var count int64
	for _, file := range r.files {
		if r.matches(file, userID, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeFileRepo) Create(_ context.Context, _ *gorm.DB, file *models.File) error {
	if r.createErr != nil {
		return r.createErr
	}
	if file.ID == 0 {
		file.ID = r.nextID
		r.nextID++
	}
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, _ *gorm.DB, fileID uint) (models.File, error) {
	file, ok := r.files[fileID]
	if !ok || file.DeletedAt.Valid {
		return models.File{}, gorm.ErrRecordNotFound
	}
	return file, nil
}

func (r *fakeFileRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) (models.File, error) {
	file, ok := r.files[fileID]
	if !ok || file.DeletedAt.Valid || file.UserID != userID {
		return models.File{}, gorm.ErrRecordNotFound
	}
	return file, nil
}

func (r *fakeFileRepo) GetSharedByFilename(_ context.Context, _ *gorm.DB, filename string) (models.File, error) {
	for _, file := range r.files {
		if file.Filename == filename && file.IsShared && !file.DeletedAt.Valid {
			return file, nil
		}
	}
	return models.File{}, gorm.ErrRecordNotFound
}

func (r *fakeFileRepo) Save(_ context.Context, _ *gorm.DB, file *models.File) error {
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) SoftDeleteByIDsAndUser(_ context.Context, _ *gorm.DB, fileIDs []uint, userID uint) error {
	for _, id := range fileIDs {
		file, ok := r.files[id]
		if !ok || file.UserID != userID || file.DeletedAt.Valid {
			continue
		}
		file.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		r.files[id] = file
	}
	return nil
}

func (r *fakeFileRepo) RestoreByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) (int64, error) {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID {
		return 0, nil
	}
	file.DeletedAt = gorm.DeletedAt{}
	r.files[fileID] = file
	return 1, nil
}

func (r *fakeFileRepo) ListByIDsAndUserUnscoped(_ context.Context, _ *gorm.DB, userID uint, fileIDs []uint) ([]models.File, error) {
	out := make([]models.File, 0)
	for _, id := range fileIDs {
		file, ok := r.files[id]
		if ok && file.UserID == userID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) DeleteByIDsUnscoped(_ context.Context, _ *gorm.DB, fileIDs []uint) error {
	for _, id := range fileIDs {
		delete(r.files, id)
	}
	return nil
}

type fakeDocumentRepo struct {
	documents map[uint]models.Document
	nextID    uint
	createErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: map[uint]models.Document{}, nextID: 1}
}

func (r *fakeDocumentRepo) matches(document models.Document, userID uint, filter repositories.DocumentFilter) bool {
	if document.UserID != userID {
		return false
	}
	if filter.OnlyDeleted != document.DeletedAt.Valid {
		return false
	}
	if filter.SearchTerm != "" && !strings.Contains(strings.ToLower(document.Filename), strings.ToLower(filter.SearchTerm)) {
		return false
	}
	if filter.IsShared != nil && document.IsShared != *filter.IsShared {
		return false
	}
	if filter.IsEditable != nil && document.IsEditable != *filter.IsEditable {
		return false
	}
	return true
}

func (r *fakeDocumentRepo) List(_ context.Context, _ *gorm.DB, in repositories.ListDocumentsInput) ([]models.Document, error) {
	out := make([]models.Document, 0)
	for _, document := range r.documents {
		if r.matches(document, in.UserID, in.Filter) {
			out = append(out, document)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if in.Offset >= len(out) {
		return []models.Document{}, nil
	}
	out = out[in.Offset:]
	if in.Limit > 0 && in.Limit < len(out) {
		out = out[:in.Limit]
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(_ context.Context, _ *gorm.DB, userID uint, filter repositories.DocumentFilter) (int64, error) {
	var count int64
	for _, document := range r.documents {
		if r.matches(document, userID, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeDocumentRepo) Create(_ context.Context, _ *gorm.DB, document *models.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	if document.ID == 0 {
		document.ID = r.nextID
		r.nextID++
	}
	r.documents[document.ID] = *document
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, _ *gorm.DB, documentID uint) (models.Document, error) {
	document, ok := r.documents[documentID]
	if !ok || document.DeletedAt.Valid {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (r *fakeDocumentRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, documentID uint, userID uint) (models.Document, error) {
	document, ok := r.documents[documentID]
	if !ok || document.DeletedAt.Valid || document.UserID != userID {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (r *fakeDocumentRepo) GetBySecurePath(_ context.Context, _ *gorm.DB, securePath string) (models.Document, error) {
	for _, document := range r.documents {
		if document.SecurePath == securePath && !document.DeletedAt.Valid {
			return document, nil
		}
	}
	return models.Document{}, gorm.ErrRecordNotFound
}

func (r *fakeDocumentRepo) GetSharedBySecurePath(ctx context.Context, tx *gorm.DB, securePath string) (models.Document, error) {
	document, err := r.GetBySecurePath(ctx, tx, securePath)
	if err != nil || !document.IsShared {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (r *fakeDocumentRepo) GetEditableBySecurePath(ctx context.Context, tx *gorm.DB, securePath string) (models.Document, error) {
	document, err := r.GetBySecurePath(ctx, tx, securePath)
	if err != nil || !document.IsEditable {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (r *fakeDocumentRepo) Save(_ context.Context, _ *gorm.DB, document *models.Document) error {
	r.documents[document.ID] = *document
	return nil
}

func (r *fakeDocumentRepo) SoftDeleteByIDsAndUser(_ context.Context, _ *gorm.DB, documentIDs []uint, userID uint) error {
	for _, id := range documentIDs {
		document, ok := r.documents[id]
		if !ok || document.UserID != userID || document.DeletedAt.Valid {
			continue
		}
		document.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		r.documents[id] = document
	}
	return nil
}

func (r *fakeDocumentRepo) RestoreByIDAndUser(_ context.Context, _ *gorm.DB, documentID uint, userID uint) (int64, error) {
	document, ok := r.documents[documentID]
	if !ok || document.UserID != userID {
		return 0, nil
	}
	document.DeletedAt = gorm.DeletedAt{}
	r.documents[documentID] = document
	return 1, nil
}

func (r *fakeDocumentRepo) ListByIDsAndUserUnscoped(_ context.Context, _ *gorm.DB, userID uint, documentIDs []uint) ([]models.Document, error) {
	out := make([]models.Document, 0)
	for _, id := range documentIDs {
		document, ok := r.documents[id]
		if ok && document.UserID == userID {
			out = append(out, document)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) DeleteByIDsUnscoped(_ context.Context, _ *gorm.DB, documentIDs []uint) error {
	for _, id := range documentIDs {
		delete(r.documents, id)
	}
	return nil
}

type fakePublicDocCache struct {
	entries     map[string]models.Document
	setCalls    int
	invalidated []string
}

func newFakePublicDocCache() *fakePublicDocCache {
	return &fakePublicDocCache{entries: map[string]models.Document{}}
}

func (c *fakePublicDocCache) Get(_ context.Context, securePath string) (models.Document, bool, error) {
	document, ok := c.entries[securePath]
	return document, ok, nil
}

func (c *fakePublicDocCache) Set(_ context.Context, document models.Document, _ int) error {
	c.entries[document.SecurePath] = document
	c.setCalls++
	return nil
}

func (c *fakePublicDocCache) Invalidate(_ context.Context, securePath string) error {
	delete(c.entries, securePath)
	c.invalidated = append(c.invalidated, securePath)
	return nil
}
