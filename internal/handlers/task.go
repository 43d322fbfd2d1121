package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goalpost-dev/goalpost/internal/goals"
	"github.com/goalpost-dev/goalpost/internal/utils"
)

type SaveTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	IsDone      bool   `json:"is_done"`
}

func parseTaskPayload(req SaveTaskRequest) (goals.TaskLineItem, []goals.FieldError) {
	dueDate, err := goals.ParseDate(req.DueDate)

	if err != nil {
		return goals.TaskLineItem{}, []goals.FieldError{{Field: "due_date", Message: err.Error()}}
	}

	return goals.TaskLineItem{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		IsDone:      req.IsDone,
	}, nil
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	goalID, err := utils.GetGoalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req SaveTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	item, errs := parseTaskPayload(req)

	if len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	task, err := goalService.CreateTask(userID, goalID, item)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	goalID, err := utils.GetGoalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req SaveTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	item, errs := parseTaskPayload(req)

	if len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	task, err := goalService.UpdateTask(userID, goalID, taskID, item)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	goalID, err := utils.GetGoalID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := goalService.DeleteTask(userID, goalID, taskID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
