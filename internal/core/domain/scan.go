package domain

import "time"

// Scan is the metadata row for an uploaded scan image.
// The binary payload lives in object storage under ObjectKey.
type Scan struct {
	ID          string
	UserID      string
	ObjectKey   string
	FileName    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
