package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetGoalID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "goal_id", "Goal")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "task_id", "Task")
}

func pathID(ctx *gin.Context, param, label string) (uint, error) {
	idStr := ctx.Param(param)

	if idStr == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}
