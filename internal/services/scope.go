package services

import (
	"context"

	"taskforge/internal/models"
	"taskforge/internal/repositories"
)

// resolveOwnTask is the single ownership gate in front of every task-bound
// operation. Rules:
//
//   - row absent or soft-deleted        -> ErrNotFound
//   - row live but owned by another user -> ErrForbidden
//
// With uniformNotFound the foreign case is also reported as ErrNotFound, so
// a caller probing somebody else's task ids learns nothing (file paths).
func resolveOwnTask(ctx context.Context, repo repositories.TaskRepository, taskID, userID int64, uniformNotFound bool) (*models.Task, error) {
	task, err := repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.IsDeleted {
		return nil, ErrNotFound
	}
	if task.CreatedBy != userID {
		if uniformNotFound {
			return nil, ErrNotFound
		}
		return nil, ErrForbidden
	}
	return task, nil
}
