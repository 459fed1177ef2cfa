package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"filesight/internal/app"
	"filesight/internal/transport/http/middleware"
	"filesight/internal/transport/http/response"
)

type ActivityHandler struct {
	activityService *app.ActivityService
}

func NewActivityHandler(activityService *app.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.activityService.Recent(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "fetch activity failed")
		return
	}

	response.OK(c, events)
}
