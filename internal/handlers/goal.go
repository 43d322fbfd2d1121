package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goalpost-dev/goalpost/internal/goals"
	"github.com/goalpost-dev/goalpost/internal/models"
	"github.com/goalpost-dev/goalpost/internal/utils"
)

// TaskItemRequest is one line item of a submitted task batch. ID selects an
// existing task to update; Delete flags it for removal.
type TaskItemRequest struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	IsDone      bool   `json:"is_done"`
	Delete      bool   `json:"delete"`
}

// SaveGoalRequest carries a goal payload plus its inline task batch. No
// binding tags on purpose: the validation engine collects all field errors
// in one pass instead of failing on the first bind rule.
type SaveGoalRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Deadline    string            `json:"deadline"`
	Tasks       []TaskItemRequest `json:"tasks"`
}

type TaskResponse struct {
	ID          uint      `json:"id"`
	GoalID      uint      `json:"goal_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date,omitempty"`
	IsDone      bool      `json:"is_done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GoalResponse struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Deadline    string    `json:"deadline,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GoalDetailResponse struct {
	GoalResponse
	Tasks          []TaskResponse `json:"tasks"`
	TotalTasks     int            `json:"total_tasks"`
	CompletedTasks int            `json:"completed_tasks"`
}

type ListGoalsResponse struct {
	Goals  []GoalResponse   `json:"goals"`
	Counts goals.GoalCounts `json:"counts"`
}

func toGoalResponse(goal *models.Goal) GoalResponse {
	return GoalResponse{
		ID:          goal.ID,
		OwnerID:     goal.OwnerID,
		Title:       goal.Title,
		Description: goal.Description,
		Status:      string(goal.Status),
		Deadline:    goals.FormatDate(goal.Deadline),
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
}

func toTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		GoalID:      task.GoalID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     goals.FormatDate(task.DueDate),
		IsDone:      task.IsDone,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// parseGoalPayload converts the wire payload into workflow inputs. Date
// parse failures come back as field errors in the same shape the
// validation engine produces.
func parseGoalPayload(req SaveGoalRequest) (goals.GoalInput, []goals.TaskLineItem, []goals.FieldError) {
	var errs []goals.FieldError

	deadline, err := goals.ParseDate(req.Deadline)

	if err != nil {
		errs = append(errs, goals.FieldError{Field: "deadline", Message: err.Error()})
	}

	in := goals.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.GoalStatus(req.Status),
		Deadline:    deadline,
	}

	items := make([]goals.TaskLineItem, 0, len(req.Tasks))

	for i, task := range req.Tasks {
		dueDate, err := goals.ParseDate(task.DueDate)

		if err != nil {
			index := i
			errs = append(errs, goals.FieldError{Field: "due_date", Message: err.Error(), LineItem: &index})
		}

		items = append(items, goals.TaskLineItem{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			DueDate:     dueDate,
			IsDone:      task.IsDone,
			Delete:      task.Delete,
		})
	}

	return in, items, errs
}

func CreateGoal(ctx *gin.Context) {
	var req SaveGoalRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	in, items, errs := parseGoalPayload(req)

	if len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	goal, err := goalService.CreateGoal(userID, in, items)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toGoalResponse(goal))
}

func ListGoals(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	goalList, counts, err := goalService.ListGoals(userID)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	response := ListGoalsResponse{
		Goals:  make([]GoalResponse, 0, len(goalList)),
		Counts: counts,
	}

	for i := range goalList {
		response.Goals = append(response.Goals, toGoalResponse(&goalList[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetGoal(ctx *gin.Context) {
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

	goal, err := goalService.GetGoal(userID, goalID)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	detail := GoalDetailResponse{
		GoalResponse: toGoalResponse(goal),
		Tasks:        make([]TaskResponse, 0, len(goal.Tasks)),
		TotalTasks:   len(goal.Tasks),
	}

	for i := range goal.Tasks {
		detail.Tasks = append(detail.Tasks, toTaskResponse(&goal.Tasks[i]))

		if goal.Tasks[i].IsDone {
			detail.CompletedTasks++
		}
	}

	ctx.JSON(http.StatusOK, detail)
}

func UpdateGoal(ctx *gin.Context) {
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

	var req SaveGoalRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	in, items, errs := parseGoalPayload(req)

	if len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	goal, err := goalService.UpdateGoal(userID, goalID, in, items)

	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toGoalResponse(goal))
}

func DeleteGoal(ctx *gin.Context) {
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

	if err := goalService.DeleteGoal(userID, goalID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
