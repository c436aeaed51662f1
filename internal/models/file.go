package models

import "time"

// File is the metadata row for an uploaded attachment. The bytes live on
// disk under StoragePath; Filename is the caller-supplied display name.
type File struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"` // server-side path, not exposed
	TaskID      int64     `json:"task_id"`
	UploadedBy  int64     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
