package health

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportAnalysesCSV writes the user's full analysis history as CSV, newest
// first.
func (s *Service) ExportAnalysesCSV(ctx context.Context, email string, w io.Writer) error {
	list, err := s.Analyses.ListByUser(ctx, email)
	if err != nil {
		return fmt.Errorf("loading analyses: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "upload_id", "filename", "risk_level", "confidence_score", "analyzed_at"}); err != nil {
		return err
	}
	for _, a := range list {
		rec := []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.UploadID, 10),
			a.Filename,
			string(a.RiskLevel),
			strconv.Itoa(a.ConfidenceScore),
			a.AnalyzedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
