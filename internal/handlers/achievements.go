package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goalpost-dev/goalpost/internal/utils"
)

func GetAchievements(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	achievements, err := goalService.Achievements(userID)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, achievements)
}
