package repositories

import (
	"context"
	"database/sql"

	"taskforge/internal/models"
)

type FileRepository interface {
	Store(ctx context.Context, file *models.File) error
	FindByID(ctx context.Context, id int64) (*models.File, error)
	FindByTask(ctx context.Context, taskID int64) ([]models.File, error)
	Delete(ctx context.Context, id int64) error
}

type fileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Store(ctx context.Context, file *models.File) error {
	const q = `INSERT INTO files (filename, storage_path, task_id, uploaded_by, created_at) VALUES (?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, file.Filename, file.StoragePath, file.TaskID, file.UploadedBy, file.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	file.ID = id
	return nil
}

func (r *fileRepository) FindByID(ctx context.Context, id int64) (*models.File, error) {
	const q = `SELECT id, filename, storage_path, task_id, uploaded_by, created_at FROM files WHERE id = ?`
	f := &models.File{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.Filename, &f.StoragePath, &f.TaskID, &f.UploadedBy, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fileRepository) FindByTask(ctx context.Context, taskID int64) ([]models.File, error) {
	const q = `SELECT id, filename, storage_path, task_id, uploaded_by, created_at FROM files WHERE task_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.Filename, &f.StoragePath, &f.TaskID, &f.UploadedBy, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *fileRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id=?`, id)
	return err
}
