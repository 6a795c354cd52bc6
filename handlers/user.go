package handlers

import (
	"io"
	"net/http"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/services"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := getServices().User.GetProfile(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, user)
}

func UpdateAvatar(c *gin.Context) {
	userID := c.GetUint("user_id")

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read the uploaded avatar")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to read the uploaded avatar")
		return
	}

	user, svcErr := getServices().User.UpdateAvatar(c.Request.Context(), userID, services.AvatarUpload{
		OriginalName: header.Filename,
		Size:         header.Size,
		Content:      content,
	})
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, user)
}

func GetStorageQuota(c *gin.Context) {
	userID := c.GetUint("user_id")

	quota, err := getServices().User.GetStorageQuota(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, quota)
}
