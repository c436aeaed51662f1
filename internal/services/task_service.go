// internal/services/task_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"taskforge/internal/models"
	"taskforge/internal/repositories"
)

// TaskService defines the interface for task-related business logic. Every
// method takes the caller's user id and operates only on rows that caller
// owns; is_deleted rows behave as if absent.
type TaskService interface {
	Create(ctx context.Context, userID int64, task *models.Task) (*models.Task, error)
	BulkCreate(ctx context.Context, userID int64, tasks []*models.Task) ([]*models.Task, error)
	List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error)
	ListAll(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Task, error)
	Update(ctx context.Context, userID, id int64, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

type taskService struct {
	repo repositories.TaskRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func validateTask(task *models.Task) error {
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if !models.IsAllowedTaskStatus(task.Status) {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidArgument, task.Status)
	}
	if !models.IsAllowedTaskPriority(task.Priority) {
		return fmt.Errorf("%w: invalid priority %q", ErrInvalidArgument, task.Priority)
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, userID int64, task *models.Task) (*models.Task, error) {
	if err := validateTask(task); err != nil {
		return nil, err
	}
	task.CreatedBy = userID
	task.CreatedAt = time.Now()

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// BulkCreate stores the whole batch or nothing: one invalid member rejects
// the request before any row is written, and the insert itself runs in a
// single transaction.
func (s *taskService) BulkCreate(ctx context.Context, userID int64, tasks []*models.Task) ([]*models.Task, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: tasks list is empty", ErrInvalidArgument)
	}
	now := time.Now()
	for _, task := range tasks {
		if err := validateTask(task); err != nil {
			return nil, err
		}
		task.CreatedBy = userID
		task.CreatedAt = now
	}
	if err := s.repo.StoreBulk(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func validateFilter(filter *models.TaskFilter, paginated bool) error {
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if !repositories.IsSortable(filter.SortBy) {
		return fmt.Errorf("%w: invalid sort field %q", ErrInvalidArgument, filter.SortBy)
	}
	if filter.Order == "" {
		filter.Order = "desc"
	}
	if !paginated {
		filter.Limit = 0
		return nil
	}
	if filter.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidArgument)
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		return fmt.Errorf("%w: limit must be in [1,100]", ErrInvalidArgument)
	}
	return nil
}

// List returns one page of the caller's live tasks. Ties beyond the sort key
// fall back to the database's natural order.
func (s *taskService) List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error) {
	if err := validateFilter(&filter, true); err != nil {
		return nil, err
	}
	return s.repo.FindOwned(ctx, userID, filter)
}

// ListAll is the export variant: same filters, no pagination.
func (s *taskService) ListAll(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error) {
	if err := validateFilter(&filter, false); err != nil {
		return nil, err
	}
	return s.repo.FindOwned(ctx, userID, filter)
}

func (s *taskService) GetByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	return resolveOwnTask(ctx, s.repo, id, userID, false)
}

// Update merges the provided fields into the current row. Unset patch fields
// keep their stored value; DueDate/AssignedTo can be explicitly cleared.
func (s *taskService) Update(ctx context.Context, userID, id int64, patch models.TaskPatch) (*models.Task, error) {
	current, err := resolveOwnTask(ctx, s.repo, id, userID, false)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if patch.Priority != nil {
		current.Priority = *patch.Priority
	}
	if patch.DueDateSet {
		current.DueDate = patch.DueDate
	}
	if patch.Tags != nil {
		current.Tags = *patch.Tags
	}
	if patch.AssignedToSet {
		current.AssignedTo = patch.AssignedTo
	}

	if err := validateTask(current); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete is a soft delete; comments and files under the task stay in place
// but become unreachable because every path goes through the ownership gate.
func (s *taskService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := resolveOwnTask(ctx, s.repo, id, userID, false); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
