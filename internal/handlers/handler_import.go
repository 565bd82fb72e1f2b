package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/importjobs"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// importHandler handles the bulk import pipelines. Both pipelines can run
// synchronously or, with ?async=true, as a background job polled by id.
type importHandler struct {
	accountImport portssvc.AccountImportSvcFacade
	paymentImport portssvc.PaymentImportSvcFacade
	jobs          *importjobs.Store
}

func newImportHandler(accountImport portssvc.AccountImportSvcFacade, paymentImport portssvc.PaymentImportSvcFacade, jobs *importjobs.Store) *importHandler {
	return &importHandler{
		accountImport: accountImport,
		paymentImport: paymentImport,
		jobs:          jobs,
	}
}

// importAccounts ingests a chart-of-accounts CSV, either as a multipart "file"
// field or as the raw request body.
func (h *importHandler) importAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	csvBytes, err := readCSVPayload(c)
	if err != nil {
		logger.Error("Failed to read CSV payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read CSV payload"})
		return
	}
	if len(csvBytes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty CSV payload"})
		return
	}

	if c.Query("async") == "true" {
		job := h.jobs.Start(c.Request.Context(), "accounts_import", userID, func(ctx context.Context) (interface{}, error) {
			return h.accountImport.ImportAccounts(ctx, bytes.NewReader(csvBytes), userID)
		})
		c.JSON(http.StatusAccepted, job)
		return
	}

	result, err := h.accountImport.ImportAccounts(c.Request.Context(), bytes.NewReader(csvBytes), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to import accounts")
		return
	}
	status := http.StatusOK
	if !result.Ok {
		// Validation failures: nothing was committed.
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (h *importHandler) importPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ImportPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for importPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if c.Query("async") == "true" {
		job := h.jobs.Start(c.Request.Context(), "payments_import", userID, func(ctx context.Context) (interface{}, error) {
			return h.paymentImport.ImportBatchedPayments(ctx, req, userID)
		})
		c.JSON(http.StatusAccepted, job)
		return
	}

	result, err := h.paymentImport.ImportBatchedPayments(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to import payments")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *importHandler) getJob(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobs.Get(c.Param("jobID"), userID)
	if err != nil {
		if errors.Is(err, importjobs.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Import job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *importHandler) listJobs(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": h.jobs.ListByOwner(userID)})
}

func readCSVPayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

// registerImportRoutes registers the bulk import routes.
func registerImportRoutes(group *gin.RouterGroup, accountImport portssvc.AccountImportSvcFacade, paymentImport portssvc.PaymentImportSvcFacade, jobs *importjobs.Store) {
	h := newImportHandler(accountImport, paymentImport, jobs)

	imports := group.Group("/imports")
	{
		imports.POST("/accounts", h.importAccounts)
		imports.POST("/payments", h.importPayments)
		imports.GET("/jobs", h.listJobs)
		imports.GET("/jobs/:jobID", h.getJob)
	}
}
