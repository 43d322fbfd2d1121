package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goalpost-dev/goalpost/internal/goals"
	"github.com/goalpost-dev/goalpost/internal/services"
)

var (
	goalService *goals.Service
	eventHub    *services.EventHub
)

// Init wires the shared service and event hub into the handler package.
// Called once from main before the router starts serving.
func Init(service *goals.Service, hub *services.EventHub) {
	goalService = service
	eventHub = hub
}

// writeServiceError translates the workflow's typed outcomes into HTTP
// responses. Validation failures carry their field errors; everything
// unexpected becomes a logged 500.
func writeServiceError(ctx *gin.Context, err error) {
	if verr, ok := goals.AsValidationError(err); ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": verr.Errors})
		return
	}

	switch {
	case errors.Is(err, goals.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, goals.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		log.Printf("Unexpected store failure: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
