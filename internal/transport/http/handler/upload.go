package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"filesight/internal/app"
	"filesight/internal/transport/http/middleware"
	"filesight/internal/transport/http/response"
)

type UploadHandler struct {
	uploadService *app.UploadService
}

func NewUploadHandler(uploadService *app.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no file uploaded (form field 'file')")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	upload, err := h.uploadService.Store(c.Request.Context(), app.StoreUploadInput{
		OwnerID:  userID,
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnsupportedType),
			errors.Is(err, app.ErrFileTooLarge),
			errors.Is(err, app.ErrEmptyFile),
			errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "failed to store upload")
		}
		return
	}

	response.Created(c, upload, "File uploaded successfully")
}

func (h *UploadHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	items, err := h.uploadService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list uploads")
		return
	}
	response.OK(c, items)
}

func (h *UploadHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	uploadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.uploadService.Get(userID, uploadID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUploadNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "failed to fetch upload")
		}
		return
	}
	response.OK(c, detail)
}

func (h *UploadHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	uploadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), userID, uploadID); err != nil {
		switch {
		case errors.Is(err, app.ErrUploadNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "failed to delete upload")
		}
		return
	}
	response.Message(c, "Upload deleted successfully")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
