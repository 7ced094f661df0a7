package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lifelens/lifelens/internal/domain/ai"
	"github.com/lifelens/lifelens/internal/domain/analyses"
	"github.com/lifelens/lifelens/internal/domain/profiles"
	"github.com/lifelens/lifelens/internal/domain/reports"
	"github.com/lifelens/lifelens/internal/domain/uploads"
)

// stepClock advances one second per call so saved rows get distinct times.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type memProfiles struct{ m map[string]*profiles.Profile }

func (r *memProfiles) Upsert(_ context.Context, p *profiles.Profile) error {
	cp := *p
	r.m[p.UserEmail] = &cp
	return nil
}

func (r *memProfiles) Get(_ context.Context, email string) (*profiles.Profile, error) {
	p, ok := r.m[email]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type memUploads struct {
	m    map[int64]*uploads.Upload
	next int64
}

func (r *memUploads) Save(_ context.Context, u *uploads.Upload) (int64, error) {
	r.next++
	cp := *u
	cp.ID = r.next
	r.m[cp.ID] = &cp
	return cp.ID, nil
}

func (r *memUploads) Get(_ context.Context, id int64) (*uploads.Upload, error) {
	u, ok := r.m[id]
	if !ok {
		return nil, uploads.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUploads) ListByUser(_ context.Context, email string) ([]*uploads.Upload, error) {
	var out []*uploads.Upload
	// ids are assigned in upload order, so walking backwards is newest first
	for id := r.next; id >= 1; id-- {
		if u, ok := r.m[id]; ok && u.UserEmail == email {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memAnalyses mimics the transactional contract: saving an analysis flips
// the owning upload to completed.
type memAnalyses struct {
	uploads *memUploads
	rows    []*analyses.Analysis
	next    int64
}

func (r *memAnalyses) Save(_ context.Context, a *analyses.Analysis) (int64, error) {
	up, ok := r.uploads.m[a.UploadID]
	if !ok {
		return 0, fmt.Errorf("upload %d does not exist", a.UploadID)
	}
	r.next++
	cp := *a
	cp.ID = r.next
	r.rows = append(r.rows, &cp)
	up.AnalysisStatus = uploads.StatusCompleted
	return cp.ID, nil
}

func (r *memAnalyses) LatestByUpload(_ context.Context, uploadID int64) (*analyses.Analysis, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UploadID == uploadID {
			cp := *r.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAnalyses) ListByUser(_ context.Context, email string) ([]*analyses.Analysis, error) {
	var out []*analyses.Analysis
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserEmail == email {
			cp := *r.rows[i]
			if up, ok := r.uploads.m[cp.UploadID]; ok {
				cp.Filename = up.Filename
			}
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memReports struct {
	rows []*reports.Report
	next int64
}

func (r *memReports) Save(_ context.Context, rep *reports.Report) (int64, error) {
	r.next++
	cp := *rep
	cp.ID = r.next
	r.rows = append(r.rows, &cp)
	return cp.ID, nil
}

func (r *memReports) ListByUser(_ context.Context, email string) ([]*reports.Report, error) {
	var out []*reports.Report
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserEmail == email {
			cp := *r.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memArtifacts struct{ m map[string][]byte }

func (s *memArtifacts) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.m[key] = data
	return "mem://" + key, nil
}

func (s *memArtifacts) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.m[key]
	if !ok {
		return nil, fmt.Errorf("artifact %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeAI struct {
	scan     *ai.ScanAnalysis
	risk     *ai.RiskAssessment
	insights *ai.HealthInsights
	err      error

	gotImage   []byte
	gotProfile *profiles.Profile
	gotHistory []json.RawMessage
}

func (f *fakeAI) AnalyzeScan(_ context.Context, image []byte, p *profiles.Profile) (*ai.ScanAnalysis, error) {
	f.gotImage, f.gotProfile = image, p
	return f.scan, f.err
}

func (f *fakeAI) AssessRisk(_ context.Context, p *profiles.Profile) (*ai.RiskAssessment, error) {
	f.gotProfile = p
	return f.risk, f.err
}

func (f *fakeAI) GenerateInsights(_ context.Context, p *profiles.Profile, history []json.RawMessage) (*ai.HealthInsights, error) {
	f.gotProfile, f.gotHistory = p, history
	return f.insights, f.err
}

func score(n int) *ai.Score {
	s := ai.Score(n)
	return &s
}

func newTestService(aiClient ai.Client) (*Service, *memUploads, *memAnalyses) {
	ups := &memUploads{m: make(map[int64]*uploads.Upload)}
	ans := &memAnalyses{uploads: ups}
	return &Service{
		Profiles:  &memProfiles{m: make(map[string]*profiles.Profile)},
		Uploads:   ups,
		Analyses:  ans,
		Reports:   &memReports{},
		Artifacts: &memArtifacts{m: make(map[string][]byte)},
		AI:        aiClient,
		Clock:     &stepClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}, ups, ans
}

const user = "a@example.com"

func TestUploadScanStartsPending(t *testing.T) {
	svc, _, _ := newTestService(&fakeAI{})
	ctx := context.Background()

	up, err := svc.UploadScan(ctx, user, "scan1.png", strings.NewReader("img-bytes"), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if up.AnalysisStatus != uploads.StatusPending {
		t.Errorf("status = %s, want pending", up.AnalysisStatus)
	}
	if up.FileType != uploads.FileTypeImage {
		t.Errorf("file type = %s, want image", up.FileType)
	}
	if !strings.HasPrefix(up.Path, "a_at_example_com/") {
		t.Errorf("artifact key %q not namespaced per user", up.Path)
	}

	if _, err := svc.UploadScan(ctx, user, "scan2.png", strings.NewReader("img2"), 4); err != nil {
		t.Fatalf("upload: %v", err)
	}

	list, err := svc.ListUploads(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d uploads, want 2", len(list))
	}
	if list[0].Filename != "scan2.png" {
		t.Errorf("newest upload should come first, got %q", list[0].Filename)
	}
}

func TestAnalyzeUploadLifecycle(t *testing.T) {
	fake := &fakeAI{scan: &ai.ScanAnalysis{
		ScanType:        "ultrasound",
		RiskLevel:       "low",
		ConfidenceScore: score(88),
	}}
	svc, ups, _ := newTestService(fake)
	ctx := context.Background()

	if _, err := svc.SaveProfile(ctx, user, profiles.Profile{Age: 34, WeightKG: 70, HeightCM: 175}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	up, err := svc.UploadScan(ctx, user, "scan1.png", strings.NewReader("img-bytes"), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	a, err := svc.AnalyzeUpload(ctx, user, up.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.RiskLevel != analyses.RiskLow {
		t.Errorf("risk = %s, want low", a.RiskLevel)
	}
	if a.ConfidenceScore != 88 {
		t.Errorf("confidence = %d, want 88", a.ConfidenceScore)
	}
	if string(fake.gotImage) != "img-bytes" {
		t.Error("artifact bytes were not passed to the AI client")
	}
	if fake.gotProfile == nil || fake.gotProfile.Age != 34 {
		t.Error("profile was not passed as analysis context")
	}

	if ups.m[up.ID].AnalysisStatus != uploads.StatusCompleted {
		t.Error("upload should be completed after a stored analysis")
	}

	got, err := svc.AnalysisForUpload(ctx, user, up.ID)
	if err != nil {
		t.Fatalf("analysis for upload: %v", err)
	}
	if got == nil || got.ID != a.ID {
		t.Errorf("latest analysis = %+v, want id %d", got, a.ID)
	}
	var decoded ai.ScanAnalysis
	if err := json.Unmarshal(got.Data, &decoded); err != nil {
		t.Fatalf("stored data is not the analysis JSON: %v", err)
	}
	if decoded.ScanType != "ultrasound" {
		t.Errorf("scan type = %q", decoded.ScanType)
	}
}

func TestAnalyzeNormalizesModelOutput(t *testing.T) {
	cases := []struct {
		name       string
		risk       string
		confidence int
		wantRisk   analyses.RiskLevel
		wantConf   int
	}{
		{"medium maps to moderate", "Medium", 70, analyses.RiskModerate, 70},
		{"junk maps to unknown", "catastrophic", 70, analyses.RiskUnknown, 70},
		{"confidence clamped high", "high", 250, analyses.RiskHigh, 100},
		{"confidence clamped low", "low", -5, analyses.RiskLow, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeAI{scan: &ai.ScanAnalysis{RiskLevel: tc.risk, ConfidenceScore: score(tc.confidence)}}
			svc, _, _ := newTestService(fake)
			ctx := context.Background()

			up, err := svc.UploadScan(ctx, user, "scan.png", strings.NewReader("x"), 1)
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			a, err := svc.AnalyzeUpload(ctx, user, up.ID)
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			if a.RiskLevel != tc.wantRisk || a.ConfidenceScore != tc.wantConf {
				t.Errorf("got (%s, %d), want (%s, %d)", a.RiskLevel, a.ConfidenceScore, tc.wantRisk, tc.wantConf)
			}
		})
	}
}

func TestAnalyzeNotConfiguredLeavesUploadPending(t *testing.T) {
	svc, ups, _ := newTestService(&fakeAI{err: ai.ErrNotConfigured})
	ctx := context.Background()

	up, err := svc.UploadScan(ctx, user, "scan.png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.AnalyzeUpload(ctx, user, up.ID); !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if ups.m[up.ID].AnalysisStatus != uploads.StatusPending {
		t.Error("failed analysis must not complete the upload")
	}
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	svc, _, _ := newTestService(&fakeAI{scan: &ai.ScanAnalysis{}})
	ctx := context.Background()

	up, err := svc.UploadScan(ctx, user, "results.pdf", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.AnalyzeUpload(ctx, user, up.ID); err == nil {
		t.Error("expected error analyzing a pdf upload")
	}
}

func TestAnalyzeHidesForeignUploads(t *testing.T) {
	svc, _, _ := newTestService(&fakeAI{scan: &ai.ScanAnalysis{}})
	ctx := context.Background()

	up, err := svc.UploadScan(ctx, "other@example.com", "scan.png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.AnalyzeUpload(ctx, user, up.ID); !errors.Is(err, uploads.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign upload, got %v", err)
	}
}

func TestListAnalysesNewestFirst(t *testing.T) {
	fake := &fakeAI{scan: &ai.ScanAnalysis{RiskLevel: "low", ConfidenceScore: score(80)}}
	svc, _, _ := newTestService(fake)
	ctx := context.Background()

	for _, name := range []string{"scan1.png", "scan2.png", "scan3.png"} {
		up, err := svc.UploadScan(ctx, user, name, strings.NewReader("x"), 1)
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
		if _, err := svc.AnalyzeUpload(ctx, user, up.ID); err != nil {
			t.Fatalf("analyze %s: %v", name, err)
		}
	}

	list, err := svc.ListAnalyses(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d analyses, want 3", len(list))
	}
	if list[0].Filename != "scan3.png" || list[2].Filename != "scan1.png" {
		t.Errorf("wrong order: %s, %s, %s", list[0].Filename, list[1].Filename, list[2].Filename)
	}
}

func TestAssessRiskRequiresProfile(t *testing.T) {
	svc, _, _ := newTestService(&fakeAI{risk: &ai.RiskAssessment{RiskLevel: "low"}})
	ctx := context.Background()

	if _, err := svc.AssessRisk(ctx, user); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}

	if _, err := svc.SaveProfile(ctx, user, profiles.Profile{Age: 34}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	out, err := svc.AssessRisk(ctx, user)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if out.RiskLevel != "low" {
		t.Errorf("risk = %q", out.RiskLevel)
	}
}

func TestInsightsPassesHistory(t *testing.T) {
	fake := &fakeAI{
		scan:     &ai.ScanAnalysis{RiskLevel: "low", ConfidenceScore: score(80)},
		insights: &ai.HealthInsights{OverallHealthStatus: "stable"},
	}
	svc, _, _ := newTestService(fake)
	ctx := context.Background()

	if _, err := svc.SaveProfile(ctx, user, profiles.Profile{Age: 34}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	up, err := svc.UploadScan(ctx, user, "scan.png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.AnalyzeUpload(ctx, user, up.ID); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	out, err := svc.Insights(ctx, user)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if out.OverallHealthStatus != "stable" {
		t.Errorf("status = %q", out.OverallHealthStatus)
	}
	if len(fake.gotHistory) != 1 {
		t.Errorf("history length = %d, want 1", len(fake.gotHistory))
	}
}

func TestExportAnalysesCSV(t *testing.T) {
	fake := &fakeAI{scan: &ai.ScanAnalysis{RiskLevel: "low", ConfidenceScore: score(88)}}
	svc, _, _ := newTestService(fake)
	ctx := context.Background()

	up, err := svc.UploadScan(ctx, user, "scan1.png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.AnalyzeUpload(ctx, user, up.ID); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportAnalysesCSV(ctx, user, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row:\n%s", len(lines), buf.String())
	}
	if lines[0] != "id,upload_id,filename,risk_level,confidence_score,analyzed_at" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "scan1.png") || !strings.Contains(lines[1], "low") || !strings.Contains(lines[1], "88") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestGenerateReport(t *testing.T) {
	svc, _, _ := newTestService(&fakeAI{})
	ctx := context.Background()

	if _, err := svc.SaveProfile(ctx, user, profiles.Profile{Age: 34, WeightKG: 70, HeightCM: 175}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	up, err := svc.UploadScan(ctx, user, "scan1.png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	rep, err := svc.GenerateReport(ctx, user, "health_summary", &up.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Age:** 34", "BMI:** 22.9", "scan1.png", "Health Recommendations"} {
		if !strings.Contains(rep.ReportContent, want) {
			t.Errorf("report missing %q", want)
		}
	}

	list, err := svc.ListReports(ctx, user)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(list) != 1 || list[0].ReportType != "health_summary" {
		t.Errorf("unexpected reports: %+v", list)
	}
}
