package handlers

import (
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "cloud-storage",
	})
}
