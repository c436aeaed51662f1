package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskforge/internal/models"
	"taskforge/internal/repositories"
)

// MaxFileSize is the upload ceiling (5 MiB), checked before anything is
// written to disk or to the database.
const MaxFileSize = 5 * 1024 * 1024

// Allowed MIME types for uploaded files.
var allowedFileTypes = map[string]struct{}{
	"image/png":       {},
	"image/jpeg":      {},
	"application/pdf": {},
}

const stagingSuffix = ".part"

type FileService interface {
	Upload(ctx context.Context, userID, taskID int64, filename, contentType string, size int64, src io.Reader) (*models.File, error)
	ListForTask(ctx context.Context, userID, taskID int64) ([]models.File, error)
	Download(ctx context.Context, userID, fileID int64) (*models.File, string, error)
	Delete(ctx context.Context, userID, fileID int64) error
	SweepStaging() error
}

type fileService struct {
	repo    repositories.FileRepository
	tasks   repositories.TaskRepository
	rootDir string
}

func NewFileService(repo repositories.FileRepository, tasks repositories.TaskRepository, rootDir string) FileService {
	return &fileService{repo: repo, tasks: tasks, rootDir: filepath.Clean(rootDir)}
}

// Upload validates type and size first, then resolves the parent task (a
// missing, deleted or foreign task is uniformly "not found" here; upload
// probes must not confirm that somebody else's task exists), then publishes
// in two phases: staging write, row insert, rename. A crash in between
// leaves at most a staging file, never a published file without a row.
func (s *fileService) Upload(ctx context.Context, userID, taskID int64, filename, contentType string, size int64, src io.Reader) (*models.File, error) {
	if _, ok := allowedFileTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidArgument, contentType)
	}
	if size > MaxFileSize {
		return nil, fmt.Errorf("%w: file size exceeds 5MB limit", ErrInvalidArgument)
	}

	if _, err := resolveOwnTask(ctx, s.tasks, taskID, userID, true); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return nil, err
	}

	// generated unique prefix keeps collisions and path traversal out;
	// the caller-supplied name survives only as display metadata
	stored := uuid.New().String() + "_" + filepath.Base(filename)
	finalPath := filepath.Join(s.rootDir, stored)
	stagingPath := finalPath + stagingSuffix

	dst, err := os.Create(stagingPath)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(stagingPath)
		return nil, err
	}
	if written > MaxFileSize {
		os.Remove(stagingPath)
		return nil, fmt.Errorf("%w: file size exceeds 5MB limit", ErrInvalidArgument)
	}

	file := &models.File{
		Filename:    filepath.Base(filename),
		StoragePath: finalPath,
		TaskID:      taskID,
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Store(ctx, file); err != nil {
		os.Remove(stagingPath)
		return nil, err
	}

	if err := os.Rename(stagingPath, finalPath); err != nil {
		// roll the row back rather than leave it pointing at nothing
		if derr := s.repo.Delete(ctx, file.ID); derr != nil {
			log.Printf("[file][upload][err] orphan row %d after failed publish: %v", file.ID, derr)
		}
		os.Remove(stagingPath)
		return nil, err
	}

	return file, nil
}

func (s *fileService) ListForTask(ctx context.Context, userID, taskID int64) ([]models.File, error) {
	if _, err := resolveOwnTask(ctx, s.tasks, taskID, userID, true); err != nil {
		return nil, err
	}
	return s.repo.FindByTask(ctx, taskID)
}

// ownedFile resolves a file for download or delete through the full chain:
// file row, then the parent task with the task ownership rules (foreign task
// is 403 here, same as direct task access).
func (s *fileService) ownedFile(ctx context.Context, userID, fileID int64) (*models.File, error) {
	file, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrNotFound
	}
	if _, err := resolveOwnTask(ctx, s.tasks, file.TaskID, userID, false); err != nil {
		return nil, err
	}
	return file, nil
}

// Download returns the metadata row and the on-disk path. A valid row whose
// object is gone from disk is still 404 to the caller, but is logged apart
// from the row-missing case: the two mean very different things on the
// server.
func (s *fileService) Download(ctx context.Context, userID, fileID int64) (*models.File, string, error) {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(file.StoragePath); err != nil {
		log.Printf("[file][download][err] row %d present but object missing on disk: %s", file.ID, file.StoragePath)
		return nil, "", ErrNotFound
	}
	return file, file.StoragePath, nil
}

// Delete removes the disk object best-effort (absence is not an error), then
// the row.
func (s *fileService) Delete(ctx context.Context, userID, fileID int64) error {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := os.Remove(file.StoragePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[file][delete][warn] could not remove %s: %v", file.StoragePath, err)
	}
	return s.repo.Delete(ctx, fileID)
}

// SweepStaging drops *.part leftovers from interrupted uploads. Called once
// at startup.
func (s *fileService) SweepStaging() error {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), stagingSuffix) {
			continue
		}
		stale := filepath.Join(s.rootDir, e.Name())
		if err := os.Remove(stale); err != nil {
			log.Printf("[file][sweep][warn] could not remove %s: %v", stale, err)
		} else {
			log.Printf("[file][sweep] removed stale upload %s", stale)
		}
	}
	return nil
}
