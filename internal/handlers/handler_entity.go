package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fundacct/fundledger/internal/apperrors"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entityHandler handles HTTP requests for entity administration.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
}

func newEntityHandler(entityService portssvc.EntitySvcFacade) *entityHandler {
	return &entityHandler{entityService: entityService}
}

func (h *entityHandler) createEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entity, err := h.entityService.CreateEntity(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create entity")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntityResponse(entity))
}

func (h *entityHandler) getEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityCode := c.Param("entityCode")

	entity, err := h.entityService.GetEntityByCode(c.Request.Context(), entityCode)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve entity")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

func (h *entityHandler) listEntities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entities, err := h.entityService.ListEntities(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entities")
		return
	}

	resp := make([]dto.EntityResponse, len(entities))
	for i := range entities {
		resp[i] = dto.ToEntityResponse(&entities[i])
	}
	c.JSON(http.StatusOK, gin.H{"entities": resp})
}

func (h *entityHandler) updateEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityCode := c.Param("entityCode")

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateEntity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entity, err := h.entityService.UpdateEntity(c.Request.Context(), entityCode, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update entity")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// respondServiceError maps service errors to HTTP responses uniformly: the
// sentinel in the chain picks the status, anything unrecognized is a 500 with
// a generic body so internals do not leak.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, genericMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalanced):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSchemaCapability):
		logger.Error("Schema capability missing", slog.String("error", err.Error()))
		c.JSON(http.StatusNotImplemented, gin.H{"error": "This installation's schema does not support the operation"})
	default:
		logger.Error(genericMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericMsg})
	}
}

// registerEntityRoutes registers entity administration routes.
func registerEntityRoutes(group *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	h := newEntityHandler(entityService)

	entities := group.Group("/entities")
	{
		entities.POST("", h.createEntity)
		entities.GET("", h.listEntities)
		entities.GET("/:entityCode", h.getEntity)
		entities.PUT("/:entityCode", h.updateEntity)
	}
}
