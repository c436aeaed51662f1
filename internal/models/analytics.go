package models

// Aggregate shapes returned by the analytics endpoints. Groups with zero
// tasks are simply absent from the slices.

type StatusCount struct {
	Status TaskStatus `json:"status"`
	Count  int        `json:"count"`
}

type PriorityCount struct {
	Priority TaskPriority `json:"priority"`
	Count    int          `json:"count"`
}

type Overview struct {
	ByStatus   []StatusCount   `json:"by_status"`
	ByPriority []PriorityCount `json:"by_priority"`
}

type UserPerformance struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	OverdueTasks   int     `json:"overdue_tasks"`
}

// TrendPoint is one calendar day of task creation.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// CompletionTrendPoint counts tasks created on a day and how many of them
// are currently done. "Completed" reflects current status, not the day the
// task was finished.
type CompletionTrendPoint struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}
