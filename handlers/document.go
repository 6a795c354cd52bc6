package handlers

import (
	"net/http"
	"strconv"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/services"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"github.com/gin-gonic/gin"
)

type UpdateDocumentRequest struct {
	Filename   string `json:"filename" binding:"required,max=255"`
	Content    string `json:"content"`
	IsShared   *bool  `json:"isShared"`
	IsEditable *bool  `json:"isEditable"`
}

type UpdatePublicDocumentRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
	Content  string `json:"content"`
}

func ListDocuments(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := getServices().Document.GetDocuments(c.Request.Context(), userID, services.GetDocumentsInput{
		Sort:       c.Query("sort"),
		SearchTerm: c.Query("searchTerm"),
		IsShared:   parseBoolQuery(c, "isShared"),
		IsEditable: parseBoolQuery(c, "isEditable"),
		IsDeleted:  c.Query("isDeleted") == "true",
		Page:       page,
		PerPage:    limit,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{
		"documents": out.Documents,
		"quantity":  out.Quantity,
	})
}

func GetDocument(c *gin.Context) {
	userID := c.GetUint("user_id")
	documentID, ok := parseIDParam(c, "documentId")
	if !ok {
		return
	}

	document, err := getServices().Document.GetDocument(c.Request.Context(), userID, documentID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, document)
}

// GetSharedDocument serves the anonymous read-only share link.
func GetSharedDocument(c *gin.Context) {
	document, err := getServices().Document.GetSharedBySecurePath(c.Request.Context(), c.Param("securePath"))
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, document)
}

// GetEditableDocument serves the anonymous read-write share link.
func GetEditableDocument(c *gin.Context) {
	document, err := getServices().Document.GetEditableBySecurePath(c.Request.Context(), c.Param("securePath"))
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, document)
}

func CreateDocument(c *gin.Context) {
	userID := c.GetUint("user_id")

	documentID, err := getServices().Document.CreateDocument(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{"id": documentID})
}

func UpdateDocument(c *gin.Context) {
	userID := c.GetUint("user_id")
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	document, err := getServices().Document.UpdateDocument(c.Request.Context(), userID, documentID, services.UpdateDocumentInput{
		Filename:   req.Filename,
		Content:    req.Content,
		IsShared:   req.IsShared,
		IsEditable: req.IsEditable,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, document)
}

// UpdatePublicDocument is the unauthenticated edit route; the service only
// accepts documents flagged as editable.
func UpdatePublicDocument(c *gin.Context) {
	var req UpdatePublicDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	document, err := getServices().Document.UpdateDocumentPublic(c.Request.Context(), c.Param("securePath"), services.UpdatePublicDocumentInput{
		Filename: req.Filename,
		Content:  req.Content,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, document)
}

func SaveDocumentAsFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	document, err := getServices().Document.SaveAsFile(c.Request.Context(), userID, documentID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, document)
}

func DownloadDocument(c *gin.Context) {
	userID := c.GetUint("user_id")
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	out, err := getServices().Document.DownloadDocument(c.Request.Context(), userID, documentID)
	if respondServiceError(c, err) {
		return
	}

	c.FileAttachment(out.AbsPath, out.DownloadName)
}

func RemoveDocuments(c *gin.Context) {
	userID := c.GetUint("user_id")
	ids, ok := parseIDList(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Document.RemoveDocuments(c.Request.Context(), userID, ids)) {
		return
	}

	utils.Success(c, gin.H{"message": "the documents were moved to the trash"})
}

func RestoreDocument(c *gin.Context) {
	userID := c.GetUint("user_id")
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Document.RestoreDocument(c.Request.Context(), userID, documentID)) {
		return
	}

	utils.Success(c, gin.H{"message": "the document was restored"})
}

func DeleteDocumentsPermanent(c *gin.Context) {
	userID := c.GetUint("user_id")
	ids, ok := parseIDList(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Document.DeletePermanent(c.Request.Context(), userID, ids)) {
		return
	}

	utils.Success(c, gin.H{"message": "the documents were deleted"})
}
