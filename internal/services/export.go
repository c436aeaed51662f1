package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"taskforge/internal/models"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"id", "title", "description", "status", "priority",
	"due_date", "tags", "assigned_to", "created_at",
}

// WriteTasksCSV serializes tasks in the fixed column order. Null fields
// become empty strings, timestamps are RFC3339. The JSON export of the same
// set must carry the same rows and values; see the export tests.
func WriteTasksCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(time.RFC3339)
		}
		assigned := ""
		if t.AssignedTo != nil {
			assigned = strconv.FormatInt(*t.AssignedTo, 10)
		}
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			string(t.Status),
			string(t.Priority),
			due,
			t.Tags,
			assigned,
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
