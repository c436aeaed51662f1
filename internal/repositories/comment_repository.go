package repositories

import (
	"context"
	"database/sql"

	"taskforge/internal/models"
)

type CommentRepository interface {
	Store(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	FindByTask(ctx context.Context, taskID int64) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Store(ctx context.Context, comment *models.Comment) error {
	const q = `INSERT INTO comments (content, task_id, user_id, created_at) VALUES (?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, comment.Content, comment.TaskID, comment.UserID, comment.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = id
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	const q = `SELECT id, content, task_id, user_id, created_at FROM comments WHERE id = ?`
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Content, &c.TaskID, &c.UserID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) FindByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	const q = `SELECT id, content, task_id, user_id, created_at FROM comments WHERE task_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.TaskID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE comments SET content=? WHERE id=?`, content, id)
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=?`, id)
	return err
}
