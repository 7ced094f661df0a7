package reports

import "time"

// Report is an append-only generated document for a user, optionally tied to
// an upload.
type Report struct {
	ID            int64     `json:"id"`
	UserEmail     string    `json:"user_email"`
	UploadID      *int64    `json:"upload_id,omitempty"`
	ReportType    string    `json:"report_type"`
	ReportContent string    `json:"report_content"`
	GeneratedAt   time.Time `json:"generated_at"`
	Filename      string    `json:"filename,omitempty"` // joined from uploads
}
