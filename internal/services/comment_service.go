package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskforge/internal/models"
	"taskforge/internal/repositories"
)

// CommentService guards comments with two different predicates: creating or
// listing goes through the parent task's owner, editing or deleting is
// reserved for the comment's author regardless of who owns the task.
type CommentService interface {
	Add(ctx context.Context, userID, taskID int64, content string) (*models.Comment, error)
	ListForTask(ctx context.Context, userID, taskID int64) ([]models.Comment, error)
	Update(ctx context.Context, userID, commentID int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, userID, commentID int64) error
}

type commentService struct {
	repo  repositories.CommentRepository
	tasks repositories.TaskRepository
}

func NewCommentService(repo repositories.CommentRepository, tasks repositories.TaskRepository) CommentService {
	return &commentService{repo: repo, tasks: tasks}
}

func (s *commentService) Add(ctx context.Context, userID, taskID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidArgument)
	}
	if _, err := resolveOwnTask(ctx, s.tasks, taskID, userID, false); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   content,
		TaskID:    taskID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Store(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListForTask(ctx context.Context, userID, taskID int64) ([]models.Comment, error) {
	if _, err := resolveOwnTask(ctx, s.tasks, taskID, userID, false); err != nil {
		return nil, err
	}
	return s.repo.FindByTask(ctx, taskID)
}

// authorComment resolves a comment for mutation: only the original author
// may touch it.
func (s *commentService) authorComment(ctx context.Context, userID, commentID int64) (*models.Comment, error) {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, userID, commentID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidArgument)
	}
	comment, err := s.authorComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, userID, commentID int64) error {
	if _, err := s.authorComment(ctx, userID, commentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, commentID)
}
