package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskforge/internal/models"
	"taskforge/internal/services"
)

type CommentHandler struct {
	service services.CommentService
}

func NewCommentHandler(service services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// @Summary      Add a comment to an own task
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      201  {object}  models.Comment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/task/{id} [post]
func (h *CommentHandler) Add(c *gin.Context) {
	userID := getUserID(c)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.Add(c.Request.Context(), userID, taskID, req.Content)
	if err != nil {
		abortServiceError(c, "comment", "add", err)
		return
	}
	log.Printf("[comment][add][ok] id=%d task=%d userID=%d", comment.ID, taskID, userID)
	c.JSON(http.StatusCreated, comment)
}

// @Summary      List comments of an own task
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {array}   models.Comment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/task/{id} [get]
func (h *CommentHandler) ListForTask(c *gin.Context) {
	userID := getUserID(c)

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	comments, err := h.service.ListForTask(c.Request.Context(), userID, taskID)
	if err != nil {
		abortServiceError(c, "comment", "list", err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// @Summary      Edit an own comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Comment ID"
// @Success      200  {object}  models.Comment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.Update(c.Request.Context(), userID, id, req.Content)
	if err != nil {
		abortServiceError(c, "comment", "update", err)
		return
	}
	log.Printf("[comment][update][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, comment)
}

// @Summary      Delete an own comment
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Comment ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		abortServiceError(c, "comment", "delete", err)
		return
	}
	log.Printf("[comment][delete][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
