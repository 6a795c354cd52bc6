package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/services"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseIDList reads the comma-separated ids query parameter used by the
// batch delete routes.
func parseIDList(c *gin.Context) ([]uint, bool) {
	raw := c.Query("ids")
	if raw == "" {
		utils.Error(c, http.StatusBadRequest, "ids query parameter is required")
		return nil, false
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil || id == 0 {
			utils.Error(c, http.StatusBadRequest, "invalid id in ids list")
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		utils.Error(c, http.StatusBadRequest, "ids query parameter is required")
		return nil, false
	}
	return ids, true
}

func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value := raw == "true" || raw == "1"
	return &value
}

func readUpload(header *multipart.FileHeader) (services.FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return services.FileUpload{}, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return services.FileUpload{}, err
	}

	mimetype := header.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	return services.FileUpload{
		OriginalName: header.Filename,
		Mimetype:     mimetype,
		Size:         header.Size,
		Content:      content,
	}, nil
}

func ListFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := getServices().File.GetFiles(c.Request.Context(), userID, services.GetFilesInput{
		Sort:       c.Query("sort"),
		SearchTerm: c.Query("searchTerm"),
		Mimetype:   c.Query("mimetype"),
		IsShared:   parseBoolQuery(c, "isShared"),
		IsDeleted:  c.Query("isDeleted") == "true",
		Page:       page,
		PerPage:    limit,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{
		"files":    out.Files,
		"quantity": out.Quantity,
	})
}

func GetFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}

	file, err := getServices().File.GetFile(c.Request.Context(), userID, fileID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, file)
}

// GetSharedFile serves the anonymous share link; only files flagged as
// shared resolve here.
func GetSharedFile(c *gin.Context) {
	file, err := getServices().File.GetSharedByFilename(c.Request.Context(), c.Param("filename"))
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, file)
}

func UploadFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	header, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read the uploaded file")
		return
	}

	upload, err := readUpload(header)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to read the uploaded file")
		return
	}

	file, svcErr := getServices().File.CreateFile(c.Request.Context(), userID, upload)
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, file)
}

func UploadFiles(c *gin.Context) {
	userID := c.GetUint("user_id")

	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read the uploaded files")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		utils.Error(c, http.StatusBadRequest, "no files in the upload")
		return
	}

	uploads := make([]services.FileUpload, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			utils.Error(c, http.StatusInternalServerError, "failed to read the uploaded files")
			return
		}
		uploads = append(uploads, upload)
	}

	files, svcErr := getServices().File.CreateFiles(c.Request.Context(), userID, uploads)
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, files)
}

func DownloadFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	out, err := getServices().File.DownloadFile(c.Request.Context(), userID, fileID)
	if respondServiceError(c, err) {
		return
	}

	c.FileAttachment(out.AbsPath, out.DownloadName)
}

func ToggleFileShared(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}

	file, err := getServices().File.ToggleShared(c.Request.Context(), userID, fileID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, file)
}

func RemoveFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	ids, ok := parseIDList(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().File.RemoveFiles(c.Request.Context(), userID, ids)) {
		return
	}

	utils.Success(c, gin.H{"message": "the files were moved to the trash"})
}

func RestoreFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().File.RestoreFile(c.Request.Context(), userID, fileID)) {
		return
	}

	utils.Success(c, gin.H{"message": "the file was restored"})
}

func DeleteFilesPermanent(c *gin.Context) {
	userID := c.GetUint("user_id")
	ids, ok := parseIDList(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().File.DeletePermanent(c.Request.Context(), userID, ids)) {
		return
	}

	utils.Success(c, gin.H{"message": "the files were deleted"})
}
