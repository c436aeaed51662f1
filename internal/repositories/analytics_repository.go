package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskforge/internal/models"
)

// AnalyticsRepository runs the grouped-count queries behind /analytics.
// Every query is scoped to one owner's live tasks; groups with no rows are
// absent from the result, never reported as zero.
type AnalyticsRepository interface {
	CountByStatus(ctx context.Context, ownerID int64) ([]models.StatusCount, error)
	CountByPriority(ctx context.Context, ownerID int64) ([]models.PriorityCount, error)
	TotalAndCompleted(ctx context.Context, ownerID int64) (total, completed int, err error)
	CountOverdue(ctx context.Context, ownerID int64, now time.Time) (int, error)
	CreatedPerDay(ctx context.Context, ownerID int64) ([]models.TrendPoint, error)
	CompletionPerDay(ctx context.Context, ownerID int64) ([]models.CompletionTrendPoint, error)
}

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountByStatus(ctx context.Context, ownerID int64) ([]models.StatusCount, error) {
	const q = `
		SELECT status, COUNT(id) FROM tasks
		WHERE created_by = ? AND is_deleted = 0
		GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *analyticsRepository) CountByPriority(ctx context.Context, ownerID int64) ([]models.PriorityCount, error) {
	const q = `
		SELECT priority, COUNT(id) FROM tasks
		WHERE created_by = ? AND is_deleted = 0
		GROUP BY priority`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PriorityCount
	for rows.Next() {
		var pc models.PriorityCount
		if err := rows.Scan(&pc.Priority, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

func (r *analyticsRepository) TotalAndCompleted(ctx context.Context, ownerID int64) (int, int, error) {
	const q = `
		SELECT COUNT(id), COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE created_by = ? AND is_deleted = 0`
	var total, completed int
	err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&total, &completed)
	return total, completed, err
}

func (r *analyticsRepository) CountOverdue(ctx context.Context, ownerID int64, now time.Time) (int, error) {
	const q = `
		SELECT COUNT(id) FROM tasks
		WHERE created_by = ? AND is_deleted = 0
		  AND due_date IS NOT NULL AND due_date < ?
		  AND status != 'done'`
	var n int
	err := r.db.QueryRowContext(ctx, q, ownerID, now).Scan(&n)
	return n, err
}

func (r *analyticsRepository) CreatedPerDay(ctx context.Context, ownerID int64) ([]models.TrendPoint, error) {
	const q = `
		SELECT date(created_at), COUNT(id) FROM tasks
		WHERE created_by = ? AND is_deleted = 0
		GROUP BY date(created_at)
		ORDER BY date(created_at) ASC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TrendPoint
	for rows.Next() {
		var tp models.TrendPoint
		if err := rows.Scan(&tp.Date, &tp.Count); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (r *analyticsRepository) CompletionPerDay(ctx context.Context, ownerID int64) ([]models.CompletionTrendPoint, error) {
	const q = `
		SELECT date(created_at),
		       COUNT(id),
		       COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE created_by = ? AND is_deleted = 0
		GROUP BY date(created_at)
		ORDER BY date(created_at) ASC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CompletionTrendPoint
	for rows.Next() {
		var cp models.CompletionTrendPoint
		if err := rows.Scan(&cp.Date, &cp.Created, &cp.Completed); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}
