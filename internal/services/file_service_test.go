package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskforge/internal/models"
)

func TestFileUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.mustCreateTask(t, env.alice, "with attachment", models.StatusTodo, models.PriorityLow)

	payload := []byte("%PDF-1.4 not really a pdf but close enough")
	file, err := env.files.Upload(ctx, env.alice, task.ID, "report.pdf", "application/pdf", int64(len(payload)), bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if file.ID == 0 || file.Filename != "report.pdf" {
		t.Errorf("unexpected file: %+v", file)
	}

	got, path, err := env.files.Download(ctx, env.alice, file.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if got.ID != file.ID {
		t.Errorf("downloaded row %d, want %d", got.ID, file.ID)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored object: %v", err)
	}
	if !bytes.Equal(onDisk, payload) {
		t.Error("stored bytes differ from the upload")
	}
	if strings.HasSuffix(path, ".part") {
		t.Errorf("published object still has the staging suffix: %s", path)
	}
}

func TestFileUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.mustCreateTask(t, env.alice, "target", models.StatusTodo, models.PriorityLow)

	if _, err := env.files.Upload(ctx, env.alice, task.ID, "notes.txt", "text/plain", 10, strings.NewReader("plain text")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("text/plain: got %v, want ErrInvalidArgument", err)
	}

	big := int64(6 * 1024 * 1024)
	if _, err := env.files.Upload(ctx, env.alice, task.ID, "huge.png", "image/png", big, bytes.NewReader(make([]byte, 1))); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("6 MiB declared size: got %v, want ErrInvalidArgument", err)
	}

	// a lying size header is caught against the actual bytes
	oversized := bytes.NewReader(make([]byte, MaxFileSize+1))
	if _, err := env.files.Upload(ctx, env.alice, task.ID, "liar.png", "image/png", 10, oversized); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("oversized stream: got %v, want ErrInvalidArgument", err)
	}

	files, err := env.files.ListForTask(ctx, env.alice, task.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("rejected uploads left %d rows behind", len(files))
	}
}

func TestFileUploadUniformNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	foreign := env.mustCreateTask(t, env.bob, "bobs", models.StatusTodo, models.PriorityLow)
	payload := strings.NewReader("x")

	// a foreign task reads exactly like a missing one on the upload path
	if _, err := env.files.Upload(ctx, env.alice, foreign.ID, "probe.png", "image/png", 1, payload); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign task upload: got %v, want ErrNotFound", err)
	}
	if _, err := env.files.ListForTask(ctx, env.alice, foreign.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign task list: got %v, want ErrNotFound", err)
	}
	if _, err := env.files.ListForTask(ctx, env.alice, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("absent task list: got %v, want ErrNotFound", err)
	}
}

func TestFileDownloadChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.mustCreateTask(t, env.bob, "bobs", models.StatusTodo, models.PriorityLow)
	file, err := env.files.Upload(ctx, env.bob, task.ID, "pic.png", "image/png", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// direct file access by a non-owner of the parent task is forbidden,
	// not hidden: the file id was obtained legitimately or not at all
	if _, _, err := env.files.Download(ctx, env.alice, file.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign download: got %v, want ErrForbidden", err)
	}
	if err := env.files.Delete(ctx, env.alice, file.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign delete: got %v, want ErrForbidden", err)
	}

	if err := env.tasks.Delete(ctx, env.bob, task.ID); err != nil {
		t.Fatalf("soft delete task: %v", err)
	}
	if _, _, err := env.files.Download(ctx, env.bob, file.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("download under deleted task: got %v, want ErrNotFound", err)
	}
}

func TestFileDeleteRemovesRowAndObject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.mustCreateTask(t, env.alice, "t", models.StatusTodo, models.PriorityLow)
	file, err := env.files.Upload(ctx, env.alice, task.ID, "pic.png", "image/png", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	_, path, err := env.files.Download(ctx, env.alice, file.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}

	if err := env.files.Delete(ctx, env.alice, file.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("object still on disk after delete: %v", err)
	}
	if _, _, err := env.files.Download(ctx, env.alice, file.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("download after delete: got %v, want ErrNotFound", err)
	}

	// object already gone from disk is tolerated
	other, err := env.files.Upload(ctx, env.alice, task.ID, "pic2.png", "image/png", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	_, otherPath, err := env.files.Download(ctx, env.alice, other.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	os.Remove(otherPath)
	if err := env.files.Delete(ctx, env.alice, other.ID); err != nil {
		t.Errorf("delete with missing object: %v", err)
	}
}

func TestSweepStaging(t *testing.T) {
	root := t.TempDir()
	svc := NewFileService(nil, nil, root)

	stale := filepath.Join(root, "abc_upload.png.part")
	published := filepath.Join(root, "def_kept.png")
	if err := os.WriteFile(stale, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(published, []byte("kept"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := svc.SweepStaging(); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("staging leftover survived the sweep")
	}
	if _, err := os.Stat(published); err != nil {
		t.Error("published object was swept")
	}

	// a missing root directory is fine
	empty := NewFileService(nil, nil, filepath.Join(root, "does-not-exist"))
	if err := empty.SweepStaging(); err != nil {
		t.Errorf("sweep on absent dir: %v", err)
	}
}
