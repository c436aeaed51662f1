// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func IsAllowedTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func IsAllowedTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents the structure of a task in the system.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        string       `json:"tags"`
	AssignedTo  *int64       `json:"assigned_to,omitempty"`
	CreatedBy   int64        `json:"created_by"`
	IsDeleted   bool         `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
// Limit <= 0 disables pagination (export path).
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Search   *string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// TaskPatch carries a partial update. Nil pointers mean "leave as is".
// DueDateSet/AssignedToSet distinguish "set to null" from "not provided".
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *TaskStatus
	Priority      *TaskPriority
	DueDate       *time.Time
	DueDateSet    bool
	Tags          *string
	AssignedTo    *int64
	AssignedToSet bool
}
