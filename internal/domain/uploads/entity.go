package uploads

import (
	"path/filepath"
	"strings"
	"time"
)

// FileType enum
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeOther FileType = "other"
)

// Status enum. An upload stays pending until an analysis is stored for it;
// the status flip happens inside the analysis save transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Upload is a user-submitted scan artifact tracked through the
// pending -> completed lifecycle.
type Upload struct {
	ID             int64     `json:"id"`
	UserEmail      string    `json:"user_email"`
	Filename       string    `json:"filename"`
	Path           string    `json:"path"` // object key in the artifact store
	FileType       FileType  `json:"file_type"`
	UploadDate     time.Time `json:"upload_date"`
	AnalysisStatus Status    `json:"analysis_status"`
}

// FileTypeOf derives the file type from the filename extension.
func FileTypeOf(filename string) FileType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "jpg", "jpeg", "png", "gif", "bmp":
		return FileTypeImage
	case "pdf":
		return FileTypePDF
	default:
		return FileTypeOther
	}
}

var emailKeyReplacer = strings.NewReplacer("@", "_at_", ".", "_")

// ObjectKey builds the artifact-store key for an upload: namespaced per user
// with non-key-safe characters substituted, filename prefixed with the upload
// timestamp to avoid collisions.
func ObjectKey(email, filename string, t time.Time) string {
	return emailKeyReplacer.Replace(email) + "/" + t.Format("20060102_150405") + "_" + filepath.Base(filename)
}
