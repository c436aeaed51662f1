package services

import (
	"context"
	"math"
	"time"

	"taskforge/internal/models"
	"taskforge/internal/repositories"
)

// AnalyticsService aggregates over the caller's live tasks only. A caller
// with no tasks gets empty slices and zero values, never an error.
type AnalyticsService interface {
	Overview(ctx context.Context, userID int64) (*models.Overview, error)
	UserPerformance(ctx context.Context, userID int64) (*models.UserPerformance, error)
	Trends(ctx context.Context, userID int64) ([]models.TrendPoint, error)
	CompletionTrends(ctx context.Context, userID int64) ([]models.CompletionTrendPoint, error)
}

type analyticsService struct {
	repo repositories.AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsService(repo repositories.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo, now: time.Now}
}

func (s *analyticsService) Overview(ctx context.Context, userID int64) (*models.Overview, error) {
	byStatus, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.repo.CountByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Overview{ByStatus: byStatus, ByPriority: byPriority}, nil
}

// CompletionRate rounds completed/total to two decimals as a percentage;
// total=0 is rate 0, not a division fault.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

func (s *analyticsService) UserPerformance(ctx context.Context, userID int64) (*models.UserPerformance, error) {
	total, completed, err := s.repo.TotalAndCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.CountOverdue(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return &models.UserPerformance{
		TotalTasks:     total,
		CompletedTasks: completed,
		CompletionRate: CompletionRate(completed, total),
		OverdueTasks:   overdue,
	}, nil
}

func (s *analyticsService) Trends(ctx context.Context, userID int64) ([]models.TrendPoint, error) {
	return s.repo.CreatedPerDay(ctx, userID)
}

func (s *analyticsService) CompletionTrends(ctx context.Context, userID int64) ([]models.CompletionTrendPoint, error) {
	return s.repo.CompletionPerDay(ctx, userID)
}
