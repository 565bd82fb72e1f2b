package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fundHandler handles HTTP requests for fund administration.
type fundHandler struct {
	fundService portssvc.FundSvcFacade
}

func newFundHandler(fundService portssvc.FundSvcFacade) *fundHandler {
	return &fundHandler{fundService: fundService}
}

func (h *fundHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create fund")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFundResponse(fund))
}

func (h *fundHandler) resolveFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityCode := c.Param("entityCode")
	fundToken := c.Param("fundToken")

	fund, err := h.fundService.ResolveFund(c.Request.Context(), entityCode, fundToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve fund")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}

func (h *fundHandler) listFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityCode := c.Param("entityCode")

	funds, err := h.fundService.ListFundsByEntity(c.Request.Context(), entityCode)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list funds")
		return
	}

	resp := make([]dto.FundResponse, len(funds))
	for i := range funds {
		resp[i] = dto.ToFundResponse(&funds[i])
	}
	c.JSON(http.StatusOK, gin.H{"funds": resp})
}

// registerFundRoutes registers fund routes under an entity scope.
func registerFundRoutes(group *gin.RouterGroup, fundService portssvc.FundSvcFacade) {
	h := newFundHandler(fundService)

	group.POST("/funds", h.createFund)
	group.GET("/entities/:entityCode/funds", h.listFunds)
	group.GET("/entities/:entityCode/funds/:fundToken", h.resolveFund)
}
