package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskforge/internal/db"
	"taskforge/internal/handlers"
	"taskforge/internal/pdf"
	"taskforge/internal/repositories"
	"taskforge/internal/routes"
	"taskforge/internal/services"
)

var testSigningKey = []byte("handlers-test-key")

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	auth := services.NewAuthService(testSigningKey, time.Hour)
	userService := services.NewUserService(userRepo, auth, nil)
	taskService := services.NewTaskService(taskRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	fileService := services.NewFileService(fileRepo, taskRepo, t.TempDir())
	analyticsService := services.NewAnalyticsService(analyticsRepo)

	router := gin.New()
	return routes.SetupRoutes(
		router,
		testSigningKey,
		handlers.NewAuthHandler(userService, auth),
		handlers.NewTaskHandler(taskService),
		handlers.NewCommentHandler(commentService),
		handlers.NewFileHandler(fileService),
		handlers.NewAnalyticsHandler(analyticsService, userService, pdf.NewReportGenerator()),
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// register + login through the real endpoints, returns a bearer token
func signup(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: code %d, body %s", email, w.Code, w.Body.String())
	}

	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("login %s: code %d, body %s", email, lw.Code, lw.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, lw, &resp)
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected login payload: %s", lw.Body.String())
	}
	return resp.AccessToken
}

func createTask(t *testing.T, r *gin.Engine, token, title string) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/tasks/", token, gin.H{
		"title": title, "status": "todo", "priority": "medium",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: code %d, body %s", w.Code, w.Body.String())
	}
	var task struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &task)
	return task.ID
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "A", "email": "dup@example.com", "password": "pw123456",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first register: code %d", w.Code)
	}
	var created struct {
		Message string `json:"message"`
		User    struct {
			Email        string `json:"email"`
			PasswordHash string `json:"password_hash"`
		} `json:"user"`
	}
	decode(t, w, &created)
	if created.Message != "User registered successfully" {
		t.Errorf("message = %q", created.Message)
	}
	if created.User.PasswordHash != "" {
		t.Error("password hash leaked in the response")
	}

	again := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "B", "email": "DUP@example.com", "password": "other123",
	})
	if again.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: code %d, want 400", again.Code)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	decode(t, again, &errResp)
	if errResp.Error != "Email already registered" {
		t.Errorf("error = %q", errResp.Error)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)
	signup(t, r, "A", "a@example.com", "correct-pw")

	cases := []url.Values{
		{"username": {"a@example.com"}, "password": {"wrong"}},
		{"username": {"nobody@example.com"}, "password": {"whatever"}},
	}
	for _, form := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login %v: code %d, want 401", form, w.Code)
		}
		// unknown email and wrong password must be indistinguishable
		if !strings.Contains(w.Body.String(), "Invalid email or password") {
			t.Errorf("login %v: body %s", form, w.Body.String())
		}
	}
}

func TestAuthMeAndMissingToken(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "Alice", "alice@example.com", "pw123456")

	w := doJSON(t, r, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: code %d, body %s", w.Code, w.Body.String())
	}
	var me struct {
		Email string `json:"email"`
	}
	decode(t, w, &me)
	if me.Email != "alice@example.com" {
		t.Errorf("email = %q", me.Email)
	}

	for _, header := range []string{"", "Bearer ", "Token abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rw := httptest.NewRecorder()
		r.ServeHTTP(rw, req)
		if rw.Code != http.StatusUnauthorized {
			t.Errorf("header %q: code %d, want 401", header, rw.Code)
		}
	}
}

func TestTaskAccessMatrixOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	alice := signup(t, r, "Alice", "alice@example.com", "pw123456")
	bob := signup(t, r, "Bob", "bob@example.com", "pw123456")

	own := createTask(t, r, alice, "mine")
	foreign := createTask(t, r, bob, "his")

	gone := createTask(t, r, alice, "gone")
	if w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/tasks/%d", gone), alice, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: code %d", w.Code)
	}

	cases := []struct {
		name string
		id   int64
		want int
	}{
		{"own", own, http.StatusOK},
		{"foreign", foreign, http.StatusForbidden},
		{"soft-deleted", gone, http.StatusNotFound},
		{"absent", 99999, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/%d", tc.id), alice, nil)
			if w.Code != tc.want {
				t.Errorf("GET /tasks/%d: code %d, want %d", tc.id, w.Code, tc.want)
			}
		})
	}
}

func TestTaskListBadPagination(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "Alice", "alice@example.com", "pw123456")

	for _, q := range []string{"page=0", "limit=0", "limit=101", "page=abc", "sort_by=nope"} {
		w := doJSON(t, r, http.MethodGet, "/tasks/?"+q, token, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("query %q: code %d, want 400", q, w.Code)
		}
	}

	// an empty page is an empty JSON array, not null
	w := doJSON(t, r, http.MethodGet, "/tasks/?page=5&limit=10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("empty page: code %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty page body = %s", w.Body.String())
	}
}

func TestTaskExport(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "Alice", "alice@example.com", "pw123456")
	createTask(t, r, token, "exported")

	csvResp := doJSON(t, r, http.MethodGet, "/tasks/export", token, nil)
	if csvResp.Code != http.StatusOK {
		t.Fatalf("csv export: code %d", csvResp.Code)
	}
	if ct := csvResp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := csvResp.Header().Get("Content-Disposition"); !strings.Contains(cd, "tasks.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(csvResp.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv has %d lines, want header + 1", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,title,") {
		t.Errorf("csv header = %q", lines[0])
	}

	jsonResp := doJSON(t, r, http.MethodGet, "/tasks/export?format=json", token, nil)
	if jsonResp.Code != http.StatusOK {
		t.Fatalf("json export: code %d", jsonResp.Code)
	}
	var tasks []map[string]interface{}
	decode(t, jsonResp, &tasks)
	if len(tasks) != 1 || tasks[0]["title"] != "exported" {
		t.Errorf("json export: %s", jsonResp.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, "/tasks/export?format=xml", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("format=xml: code %d, want 400", w.Code)
	}
}

func TestCommentLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	alice := signup(t, r, "Alice", "alice@example.com", "pw123456")
	bob := signup(t, r, "Bob", "bob@example.com", "pw123456")

	task := createTask(t, r, alice, "discussed")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/comments/task/%d", task), alice, gin.H{"content": "note"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add comment: code %d, body %s", w.Code, w.Body.String())
	}
	var comment struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &comment)

	if w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/comments/task/%d", task), bob, gin.H{"content": "intruder"}); w.Code != http.StatusForbidden {
		t.Errorf("foreign comment: code %d, want 403", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/comments/%d", comment.ID), bob, gin.H{"content": "hijack"}); w.Code != http.StatusForbidden {
		t.Errorf("foreign edit: code %d, want 403", w.Code)
	}

	list := doJSON(t, r, http.MethodGet, fmt.Sprintf("/comments/task/%d", task), alice, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list comments: code %d", list.Code)
	}
	var comments []map[string]interface{}
	decode(t, list, &comments)
	if len(comments) != 1 || comments[0]["content"] != "note" {
		t.Errorf("comments: %s", list.Body.String())
	}

	if w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), alice, nil); w.Code != http.StatusOK {
		t.Errorf("delete comment: code %d", w.Code)
	}
}

func TestFileUploadOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	alice := signup(t, r, "Alice", "alice@example.com", "pw123456")
	bob := signup(t, r, "Bob", "bob@example.com", "pw123456")

	task := createTask(t, r, alice, "with file")

	upload := func(token string, taskID int64, filename, contentType string, payload []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="upload"; filename=%q`, filename))
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(payload)
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/files/task/%d", taskID), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	ok := upload(alice, task, "pic.png", "image/png", []byte("png-bytes"))
	if ok.Code != http.StatusCreated {
		t.Fatalf("upload: code %d, body %s", ok.Code, ok.Body.String())
	}
	var file struct {
		ID       int64  `json:"id"`
		Filename string `json:"filename"`
	}
	decode(t, ok, &file)
	if file.Filename != "pic.png" {
		t.Errorf("filename = %q", file.Filename)
	}

	if w := upload(alice, task, "notes.txt", "text/plain", []byte("text")); w.Code != http.StatusBadRequest {
		t.Errorf("text/plain upload: code %d, want 400", w.Code)
	}
	// foreign task looks missing on the upload path
	if w := upload(bob, task, "probe.png", "image/png", []byte("x")); w.Code != http.StatusNotFound {
		t.Errorf("foreign upload: code %d, want 404", w.Code)
	}

	dl := doJSON(t, r, http.MethodGet, fmt.Sprintf("/files/%d", file.ID), alice, nil)
	if dl.Code != http.StatusOK {
		t.Fatalf("download: code %d", dl.Code)
	}
	if dl.Body.String() != "png-bytes" {
		t.Errorf("downloaded bytes = %q", dl.Body.String())
	}
}

func TestAnalyticsOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "Alice", "alice@example.com", "pw123456")

	// no tasks yet: empty arrays and zeroes, not nulls
	w := doJSON(t, r, http.MethodGet, "/analytics/overview", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("overview: code %d", w.Code)
	}
	var overview struct {
		ByStatus   []map[string]interface{} `json:"by_status"`
		ByPriority []map[string]interface{} `json:"by_priority"`
	}
	decode(t, w, &overview)
	if overview.ByStatus == nil || overview.ByPriority == nil {
		t.Errorf("overview groups must be arrays: %s", w.Body.String())
	}

	createTask(t, r, token, "a")
	createTask(t, r, token, "b")

	perf := doJSON(t, r, http.MethodGet, "/analytics/user-performance", token, nil)
	if perf.Code != http.StatusOK {
		t.Fatalf("performance: code %d", perf.Code)
	}
	var stats struct {
		TotalTasks     int     `json:"total_tasks"`
		CompletedTasks int     `json:"completed_tasks"`
		CompletionRate float64 `json:"completion_rate"`
	}
	decode(t, perf, &stats)
	if stats.TotalTasks != 2 || stats.CompletedTasks != 0 || stats.CompletionRate != 0 {
		t.Errorf("performance: %s", perf.Body.String())
	}

	report := doJSON(t, r, http.MethodGet, "/analytics/report", token, nil)
	if report.Code != http.StatusOK {
		t.Fatalf("report: code %d", report.Code)
	}
	if ct := report.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("report content type = %q", ct)
	}
	if !bytes.HasPrefix(report.Body.Bytes(), []byte("%PDF")) {
		t.Error("report body is not a PDF")
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: code %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("healthz body = %s", w.Body.String())
	}
}
