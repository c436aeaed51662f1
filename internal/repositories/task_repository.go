package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskforge/internal/models"
)

// sortColumns is the whitelist for ORDER BY. Anything else is rejected
// upstream; the repository never interpolates caller input into SQL.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"priority":   "priority",
	"status":     "status",
	"due_date":   "due_date",
	"title":      "title",
}

func IsSortable(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	StoreBulk(ctx context.Context, tasks []*models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindOwned(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	SoftDelete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, due_date, tags, assigned_to, created_by, is_deleted, created_at`

func scanTask(row interface{ Scan(...interface{}) error }, t *models.Task) error {
	return row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.AssignedTo, &t.CreatedBy, &t.IsDeleted, &t.CreatedAt,
	)
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	const q = `
		INSERT INTO tasks (title, description, status, priority, due_date, tags, assigned_to, created_by, is_deleted, created_at)
		VALUES (?,?,?,?,?,?,?,?,0,?)`
	res, err := r.db.ExecContext(ctx, q,
		task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.Tags, task.AssignedTo, task.CreatedBy, task.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// StoreBulk inserts all tasks inside one transaction: either every row lands
// or none does.
func (r *taskRepository) StoreBulk(ctx context.Context, tasks []*models.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO tasks (title, description, status, priority, due_date, tags, assigned_to, created_by, is_deleted, created_at)
		VALUES (?,?,?,?,?,?,?,?,0,?)`
	for _, task := range tasks {
		res, err := tx.ExecContext(ctx, q,
			task.Title, task.Description, task.Status, task.Priority,
			task.DueDate, task.Tags, task.AssignedTo, task.CreatedBy, task.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}
		task.ID = id
	}
	return tx.Commit()
}

// FindByID returns the row regardless of the soft-delete flag; deciding
// between "not found" and "forbidden" needs the full row.
func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, q, id), task)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// FindOwned lists the owner's live tasks with the optional filters, sorting
// and pagination applied. Filter validation (sort field, page/limit bounds)
// happens in the service; the repository trusts the filter it gets.
func (r *taskRepository) FindOwned(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{"created_by = ?", "is_deleted = 0"}
	args := []interface{}{ownerID}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.Search != nil {
		conditions = append(conditions, "LOWER(title) LIKE '%' || LOWER(?) || '%'")
		args = append(args, *filter.Search)
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ")

	col, ok := sortColumns[filter.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if filter.Order == "asc" {
		dir = "ASC"
	}
	baseQuery += fmt.Sprintf(" ORDER BY %s %s", col, dir)

	if filter.Limit > 0 {
		baseQuery += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const q = `
		UPDATE tasks SET
			title=?, description=?, status=?, priority=?, due_date=?, tags=?, assigned_to=?
		WHERE id=? AND is_deleted=0`
	_, err := r.db.ExecContext(ctx, q,
		task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.Tags, task.AssignedTo, task.ID,
	)
	return err
}

// SoftDelete flips is_deleted; children stay in place.
func (r *taskRepository) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET is_deleted=1 WHERE id=?`, id)
	return err
}
