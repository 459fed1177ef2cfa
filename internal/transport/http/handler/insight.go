package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"filesight/internal/app"
	"filesight/internal/transport/http/middleware"
	"filesight/internal/transport/http/response"
)

type InsightHandler struct {
	insightService *app.InsightService
}

type AnalyzeRequest struct {
	UploadID uint `json:"uploadId" binding:"required"`
}

func NewInsightHandler(insightService *app.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

func (h *InsightHandler) Analyze(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "uploadId is required")
		return
	}

	result, err := h.insightService.Analyze(c.Request.Context(), userID, req.UploadID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUploadNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	if result.AlreadyGenerated {
		response.OKWithMessage(c, result.Insights, "Insights already generated")
		return
	}

	message := "Analysis completed successfully"
	if h.insightService.UsingMock() {
		message = "Analysis completed (mock mode - provide ANTHROPIC_API_KEY for real insights)"
	}
	response.Created(c, result.Insights, message)
}

func (h *InsightHandler) ListByUpload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	uploadID, ok := parseIDParam(c, "uploadId")
	if !ok {
		return
	}

	insights, err := h.insightService.ListByUpload(c.Request.Context(), userID, uploadID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUploadNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "failed to fetch insights")
		}
		return
	}
	response.OK(c, insights)
}

func (h *InsightHandler) Status(c *gin.Context) {
	usingMock := h.insightService.UsingMock()
	message := "Connected to Anthropic Claude API"
	if usingMock {
		message = "Running in mock mode. Provide ANTHROPIC_API_KEY environment variable for real AI analysis."
	}
	response.OK(c, gin.H{
		"usingMock": usingMock,
		"message":   message,
	})
}
