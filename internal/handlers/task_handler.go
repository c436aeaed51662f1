package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskforge/internal/models"
	"taskforge/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status" binding:"required"`
	Priority    models.TaskPriority `json:"priority" binding:"required"`
	DueDate     string              `json:"due_date"` // RFC3339
	Tags        string              `json:"tags"`
	AssignedTo  *int64              `json:"assigned_to"`
}

func (r *createTaskRequest) toTask() (*models.Task, error) {
	due, err := parseDueDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	return &models.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     due,
		Tags:        r.Tags,
		AssignedTo:  r.AssignedTo,
	}, nil
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      createTaskRequest  true  "Task"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Router       /tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID := getUserID(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := req.toTask()
	if err != nil {
		log.Printf("[task][create][err] invalid due_date=%q: %v", req.DueDate, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, task)
	if err != nil {
		abortServiceError(c, "task", "create", err)
		return
	}
	log.Printf("[task][create][ok] id=%d userID=%d title=%q", created.ID, userID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// @Summary      Bulk-create tasks
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {array}  models.Task
// @Failure      400  {object}  map[string]string
// @Router       /tasks/bulk [post]
func (h *TaskHandler) BulkCreate(c *gin.Context) {
	userID := getUserID(c)

	var req struct {
		Tasks []createTaskRequest `json:"tasks" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][bulk][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks := make([]*models.Task, 0, len(req.Tasks))
	for _, tr := range req.Tasks {
		task, err := tr.toTask()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		tasks = append(tasks, task)
	}

	created, err := h.service.BulkCreate(c.Request.Context(), userID, tasks)
	if err != nil {
		abortServiceError(c, "task", "bulk", err)
		return
	}
	log.Printf("[task][bulk][ok] userID=%d count=%d", userID, len(created))
	c.JSON(http.StatusCreated, created)
}

func filterFromQuery(c *gin.Context) (models.TaskFilter, bool) {
	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok {
		pr := models.TaskPriority(v)
		filter.Priority = &pr
	}
	if v, ok := c.GetQuery("search"); ok {
		s := v
		filter.Search = &s
	}
	filter.SortBy = c.DefaultQuery("sort_by", "created_at")
	filter.Order = c.DefaultQuery("order", "desc")

	var err error
	filter.Page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return filter, false
	}
	filter.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return filter, false
	}
	return filter, true
}

// @Summary      List tasks (filter + search + sort + pagination)
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "exact status"
// @Param        priority  query  string  false  "exact priority"
// @Param        search    query  string  false  "case-insensitive title substring"
// @Param        sort_by   query  string  false  "created_at|priority|status|due_date|title"
// @Param        order     query  string  false  "asc|desc"
// @Param        page      query  int     false  "page, >=1"
// @Param        limit     query  int     false  "page size, 1..100"
// @Success      200  {array}   models.Task
// @Failure      400  {object}  map[string]string
// @Router       /tasks/ [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID := getUserID(c)

	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}

	tasks, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		abortServiceError(c, "task", "list", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	log.Printf("[task][list][ok] userID=%d count=%d", userID, len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Export tasks as CSV or JSON
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        format  query  string  false  "csv|json (default csv)"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /tasks/export [get]
func (h *TaskHandler) Export(c *gin.Context) {
	userID := getUserID(c)

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export format"})
		return
	}

	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok {
		pr := models.TaskPriority(v)
		filter.Priority = &pr
	}
	if v, ok := c.GetQuery("search"); ok {
		s := v
		filter.Search = &s
	}

	tasks, err := h.service.ListAll(c.Request.Context(), userID, filter)
	if err != nil {
		abortServiceError(c, "task", "export", err)
		return
	}
	log.Printf("[task][export][ok] userID=%d format=%s count=%d", userID, format, len(tasks))

	if format == "json" {
		if tasks == nil {
			tasks = []models.Task{}
		}
		c.JSON(http.StatusOK, tasks)
		return
	}

	c.Header("Content-Disposition", `attachment; filename=tasks.csv`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := services.WriteTasksCSV(c.Writer, tasks); err != nil {
		log.Printf("[task][export][err] write csv: %v", err)
	}
}

// @Summary      Get one task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		abortServiceError(c, "task", "getByID", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update a task (partial merge)
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		DueDate     *string              `json:"due_date"` // RFC3339, "" очищает
		Tags        *string              `json:"tags"`
		AssignedTo  *int64               `json:"assigned_to"` // 0 очищает
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        req.Tags,
	}
	if req.DueDate != nil {
		patch.DueDateSet = true
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		patch.DueDate = due
	}
	if req.AssignedTo != nil {
		patch.AssignedToSet = true
		if *req.AssignedTo != 0 {
			patch.AssignedTo = req.AssignedTo
		}
	}

	updated, err := h.service.Update(c.Request.Context(), userID, id, patch)
	if err != nil {
		abortServiceError(c, "task", "update", err)
		return
	}
	log.Printf("[task][update][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, updated)
}

// @Summary      Soft-delete a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		abortServiceError(c, "task", "delete", err)
		return
	}
	log.Printf("[task][delete][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
