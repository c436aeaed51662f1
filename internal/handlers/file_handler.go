package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskforge/internal/models"
	"taskforge/internal/services"
)

type FileHandler struct {
	service services.FileService
}

func NewFileHandler(service services.FileService) *FileHandler {
	return &FileHandler{service: service}
}

// @Summary      Upload a file to an own task
// @Description  Multipart field "upload"; png/jpeg/pdf only, max 5 MiB
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int   true  "Task ID"
// @Param        upload  formData  file  true  "File"
// @Success      201  {object}  models.File
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /files/task/{id} [post]
func (h *FileHandler) Upload(c *gin.Context) {
	userID := getUserID(c)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	header, err := c.FormFile("upload")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload file is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		log.Printf("[file][upload][err] open multipart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer src.Close()

	file, err := h.service.Upload(
		c.Request.Context(), userID, taskID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, src,
	)
	if err != nil {
		abortServiceError(c, "file", "upload", err)
		return
	}
	log.Printf("[file][upload][ok] id=%d task=%d userID=%d name=%q size=%d", file.ID, taskID, userID, file.Filename, header.Size)
	c.JSON(http.StatusCreated, file)
}

// @Summary      List files of an own task
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {array}   models.File
// @Failure      404  {object}  map[string]string
// @Router       /files/task/{id} [get]
func (h *FileHandler) ListForTask(c *gin.Context) {
	userID := getUserID(c)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	files, err := h.service.ListForTask(c.Request.Context(), userID, taskID)
	if err != nil {
		abortServiceError(c, "file", "list", err)
		return
	}
	if files == nil {
		files = []models.File{}
	}
	c.JSON(http.StatusOK, files)
}

// @Summary      Download a file
// @Tags         Files
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id  path  int  true  "File ID"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /files/{id} [get]
func (h *FileHandler) Download(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	file, path, err := h.service.Download(c.Request.Context(), userID, id)
	if err != nil {
		abortServiceError(c, "file", "download", err)
		return
	}
	c.FileAttachment(path, file.Filename)
}

// @Summary      Delete a file
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "File ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		abortServiceError(c, "file", "delete", err)
		return
	}
	log.Printf("[file][delete][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
