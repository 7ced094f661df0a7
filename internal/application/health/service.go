package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/lifelens/lifelens/internal/application"
	"github.com/lifelens/lifelens/internal/domain/ai"
	"github.com/lifelens/lifelens/internal/domain/analyses"
	"github.com/lifelens/lifelens/internal/domain/profiles"
	"github.com/lifelens/lifelens/internal/domain/reports"
	"github.com/lifelens/lifelens/internal/domain/uploads"
)

// ErrNoProfile indicates an operation needs saved demographics and the user
// has none.
var ErrNoProfile = errors.New("no health profile saved")

// Service implements the health-tracking use-cases: profile upkeep, scan
// uploads, AI analysis, insights, reports and exports.
type Service struct {
	Profiles  profiles.Repository
	Uploads   uploads.Repository
	Analyses  analyses.Repository
	Reports   reports.Repository
	Artifacts uploads.ArtifactStore
	AI        ai.Client
	Clock     application.Clock
}

// SaveProfile creates or replaces the user's demographics in place.
func (s *Service) SaveProfile(ctx context.Context, email string, p profiles.Profile) (*profiles.Profile, error) {
	p.UserEmail = email
	p.UpdatedAt = s.Clock.Now()
	if err := s.Profiles.Upsert(ctx, &p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return &p, nil
}

// Profile returns the user's demographics, or (nil, nil) when none are saved.
func (s *Service) Profile(ctx context.Context, email string) (*profiles.Profile, error) {
	return s.Profiles.Get(ctx, email)
}

// UploadScan stores the artifact bytes and registers a pending upload.
func (s *Service) UploadScan(ctx context.Context, email, filename string, r io.Reader, size int64) (*uploads.Upload, error) {
	now := s.Clock.Now()
	key := uploads.ObjectKey(email, filename, now)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if _, err := s.Artifacts.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("storing artifact: %w", err)
	}

	up := &uploads.Upload{
		UserEmail:      email,
		Filename:       filename,
		Path:           key,
		FileType:       uploads.FileTypeOf(filename),
		UploadDate:     now,
		AnalysisStatus: uploads.StatusPending,
	}
	id, err := s.Uploads.Save(ctx, up)
	if err != nil {
		return nil, fmt.Errorf("registering upload: %w", err)
	}
	up.ID = id
	return up, nil
}

// ListUploads returns the user's uploads, newest first.
func (s *Service) ListUploads(ctx context.Context, email string) ([]*uploads.Upload, error) {
	return s.Uploads.ListByUser(ctx, email)
}

// AnalyzeUpload reads the artifact back, runs the remote analysis with the
// user's demographics as context, and stores the result. The analysis insert
// and the upload status flip happen in one transaction inside the repository.
func (s *Service) AnalyzeUpload(ctx context.Context, email string, uploadID int64) (*analyses.Analysis, error) {
	up, err := s.ownedUpload(ctx, email, uploadID)
	if err != nil {
		return nil, err
	}
	if up.FileType != uploads.FileTypeImage {
		return nil, fmt.Errorf("upload %d is not an image", uploadID)
	}

	rc, err := s.Artifacts.Get(ctx, up.Path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	defer rc.Close()
	image, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	profile, err := s.Profiles.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	result, err := s.AI.AnalyzeScan(ctx, image, profile)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}

	confidence := 0
	if result.ConfidenceScore != nil {
		confidence = analyses.ClampConfidence(int(*result.ConfidenceScore))
	}
	a := &analyses.Analysis{
		UploadID:        uploadID,
		UserEmail:       email,
		Data:            data,
		RiskLevel:       analyses.NormalizeRiskLevel(result.RiskLevel),
		ConfidenceScore: confidence,
		AnalyzedAt:      s.Clock.Now(),
		Filename:        up.Filename,
	}
	id, err := s.Analyses.Save(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	a.ID = id
	return a, nil
}

// AnalysisForUpload returns the most recent analysis for an upload, or
// (nil, nil) when it has not been analyzed yet.
func (s *Service) AnalysisForUpload(ctx context.Context, email string, uploadID int64) (*analyses.Analysis, error) {
	if _, err := s.ownedUpload(ctx, email, uploadID); err != nil {
		return nil, err
	}
	return s.Analyses.LatestByUpload(ctx, uploadID)
}

// ListAnalyses returns every analysis for the user, newest first, each with
// its upload's filename.
func (s *Service) ListAnalyses(ctx context.Context, email string) ([]*analyses.Analysis, error) {
	return s.Analyses.ListByUser(ctx, email)
}

// AssessRisk runs the demographics-only risk evaluation.
func (s *Service) AssessRisk(ctx context.Context, email string) (*ai.RiskAssessment, error) {
	profile, err := s.requireProfile(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.AI.AssessRisk(ctx, profile)
}

// Insights aggregates the user's profile and full analysis history into a
// single AI-generated view.
func (s *Service) Insights(ctx context.Context, email string) (*ai.HealthInsights, error) {
	profile, err := s.requireProfile(ctx, email)
	if err != nil {
		return nil, err
	}
	list, err := s.Analyses.ListByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("loading analyses: %w", err)
	}
	history := make([]json.RawMessage, 0, len(list))
	for _, a := range list {
		history = append(history, a.Data)
	}
	return s.AI.GenerateInsights(ctx, profile, history)
}

// GenerateReport builds a text health report and persists it. The upload
// reference is optional.
func (s *Service) GenerateReport(ctx context.Context, email, reportType string, uploadID *int64) (*reports.Report, error) {
	profile, err := s.Profiles.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	var up *uploads.Upload
	if uploadID != nil {
		if up, err = s.ownedUpload(ctx, email, *uploadID); err != nil {
			return nil, err
		}
	}

	r := &reports.Report{
		UserEmail:     email,
		UploadID:      uploadID,
		ReportType:    reportType,
		ReportContent: buildReportContent(profile, up, s.Clock.Now()),
		GeneratedAt:   s.Clock.Now(),
	}
	id, err := s.Reports.Save(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}
	r.ID = id
	return r, nil
}

// ListReports returns the user's reports, newest first.
func (s *Service) ListReports(ctx context.Context, email string) ([]*reports.Report, error) {
	return s.Reports.ListByUser(ctx, email)
}

// DietPlan builds the personalized kidney-friendly diet plan from the static
// rule table. Works without a saved profile; the plan is just less specific.
func (s *Service) DietPlan(ctx context.Context, email string) (*DietPlan, error) {
	profile, err := s.Profiles.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return buildDietPlan(profile), nil
}

func (s *Service) requireProfile(ctx context.Context, email string) (*profiles.Profile, error) {
	profile, err := s.Profiles.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNoProfile
	}
	return profile, nil
}

// ownedUpload fetches an upload and hides other users' uploads behind
// not-found.
func (s *Service) ownedUpload(ctx context.Context, email string, id int64) (*uploads.Upload, error) {
	up, err := s.Uploads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if up.UserEmail != email {
		return nil, uploads.ErrNotFound
	}
	return up, nil
}
