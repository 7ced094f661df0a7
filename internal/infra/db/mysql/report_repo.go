package mysql

import (
	"context"
	"database/sql"

	domain "github.com/lifelens/lifelens/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save appends a report row and returns the generated id.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) (int64, error) {
	const q = `
INSERT INTO reports (user_email, upload_id, report_type, report_content, generated_at)
VALUES (?,?,?,?,?);
`
	res, err := r.db.ExecContext(ctx, q,
		rep.UserEmail, toNullInt64(rep.UploadID), rep.ReportType, rep.ReportContent, rep.GeneratedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByUser returns all reports for a user, newest first, with the upload
// filename when the report is tied to one.
func (r *ReportRepository) ListByUser(ctx context.Context, email string) ([]*domain.Report, error) {
	const q = `
SELECT r.id, r.user_email, r.upload_id, r.report_type, r.report_content, r.generated_at, u.filename
FROM reports r
LEFT JOIN uploads u ON r.upload_id = u.id
WHERE r.user_email=?
ORDER BY r.generated_at DESC, r.id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		var rep domain.Report
		var uploadID sql.NullInt64
		var filename sql.NullString
		if err := rows.Scan(
			&rep.ID, &rep.UserEmail, &uploadID, &rep.ReportType, &rep.ReportContent, &rep.GeneratedAt, &filename,
		); err != nil {
			return nil, err
		}
		rep.UploadID = fromNullInt64(uploadID)
		rep.Filename = fromNullString(filename)
		if rep.Filename == "" {
			rep.Filename = "General Report"
		}
		out = append(out, &rep)
	}
	return out, rows.Err()
}
