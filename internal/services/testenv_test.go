package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"taskforge/internal/db"
	"taskforge/internal/models"
	"taskforge/internal/repositories"
)

// testEnv wires the full service stack onto an in-memory database with two
// registered users, so ownership cases can be exercised from both sides.
type testEnv struct {
	db        *sql.DB
	userRepo  repositories.UserRepository
	taskRepo  repositories.TaskRepository
	users     UserService
	auth      AuthService
	tasks     TaskService
	comments  CommentService
	files     FileService
	analytics AnalyticsService

	alice int64
	bob   int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	userRepo := repositories.NewUserRepository(conn)
	taskRepo := repositories.NewTaskRepository(conn)
	commentRepo := repositories.NewCommentRepository(conn)
	fileRepo := repositories.NewFileRepository(conn)
	analyticsRepo := repositories.NewAnalyticsRepository(conn)

	auth := NewAuthService([]byte("test-signing-key"), time.Hour)

	env := &testEnv{
		db:        conn,
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		users:     NewUserService(userRepo, auth, nil),
		auth:      auth,
		tasks:     NewTaskService(taskRepo),
		comments:  NewCommentService(commentRepo, taskRepo),
		files:     NewFileService(fileRepo, taskRepo, t.TempDir()),
		analytics: NewAnalyticsService(analyticsRepo),
	}

	ctx := context.Background()
	alice, err := env.users.Register(ctx, "Alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bob, err := env.users.Register(ctx, "Bob", "bob@example.com", "password2")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	env.alice = alice.ID
	env.bob = bob.ID
	return env
}

func (e *testEnv) mustCreateTask(t *testing.T, owner int64, title string, status models.TaskStatus, priority models.TaskPriority) *models.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), owner, &models.Task{
		Title:    title,
		Status:   status,
		Priority: priority,
	})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func priorityPtr(p models.TaskPriority) *models.TaskPriority { return &p }
