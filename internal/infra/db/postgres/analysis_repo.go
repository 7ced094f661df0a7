package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/lifelens/lifelens/internal/domain/analyses"
	"github.com/lifelens/lifelens/internal/domain/uploads"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts the analysis row and advances the owning upload to completed
// in one transaction.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const insert = `
INSERT INTO ai_analysis (upload_id, user_email, analysis_data, risk_level, confidence_score, analyzed_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
	data := a.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	var id int64
	if err := tx.QueryRowContext(ctx, insert,
		a.UploadID, a.UserEmail, []byte(data), a.RiskLevel, a.ConfidenceScore, a.AnalyzedAt,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting analysis: %w", err)
	}

	const mark = `UPDATE uploads SET analysis_status=$1 WHERE id=$2;`
	if _, err := tx.ExecContext(ctx, mark, uploads.StatusCompleted, a.UploadID); err != nil {
		return 0, fmt.Errorf("marking upload completed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LatestByUpload returns the most recent analysis, or (nil, nil) when none
// exists.
func (r *AnalysisRepository) LatestByUpload(ctx context.Context, uploadID int64) (*domain.Analysis, error) {
	const q = `
SELECT id, upload_id, user_email, analysis_data, risk_level, confidence_score, analyzed_at
FROM ai_analysis
WHERE upload_id=$1
ORDER BY analyzed_at DESC, id DESC
LIMIT 1;
`
	var a domain.Analysis
	var data []byte
	err := r.db.QueryRowContext(ctx, q, uploadID).Scan(
		&a.ID, &a.UploadID, &a.UserEmail, &data, &a.RiskLevel, &a.ConfidenceScore, &a.AnalyzedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Data = data
	return &a, nil
}

// ListByUser returns every analysis for a user, newest first, joined with
// the upload's filename.
func (r *AnalysisRepository) ListByUser(ctx context.Context, email string) ([]*domain.Analysis, error) {
	const q = `
SELECT a.id, a.upload_id, a.user_email, a.analysis_data, a.risk_level, a.confidence_score, a.analyzed_at, u.filename
FROM ai_analysis a
JOIN uploads u ON a.upload_id = u.id
WHERE a.user_email=$1
ORDER BY a.analyzed_at DESC, a.id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		var data []byte
		if err := rows.Scan(
			&a.ID, &a.UploadID, &a.UserEmail, &data, &a.RiskLevel, &a.ConfidenceScore, &a.AnalyzedAt, &a.Filename,
		); err != nil {
			return nil, err
		}
		a.Data = data
		out = append(out, &a)
	}
	return out, rows.Err()
}
