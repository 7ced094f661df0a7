package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appauth "github.com/lifelens/lifelens/internal/application/auth"
	apphealth "github.com/lifelens/lifelens/internal/application/health"
	domai "github.com/lifelens/lifelens/internal/domain/ai"
	"github.com/lifelens/lifelens/internal/domain/profiles"
	"github.com/lifelens/lifelens/internal/domain/uploads"
	"github.com/lifelens/lifelens/internal/domain/users"
	"github.com/lifelens/lifelens/internal/middleware"
)

const maxUploadBytes = 32 << 20

// errBadRequest marks a request body that could not be decoded at all, as
// opposed to one that decoded but failed a domain validation.
var errBadRequest = errors.New("invalid request body")

type Router struct {
	authSvc   *appauth.Service
	healthSvc *apphealth.Service
}

// NewRouter wires the full HTTP surface: public auth endpoints (rate limited
// per IP) and the session-guarded /v1 tree.
func NewRouter(authSvc *appauth.Service, healthSvc *apphealth.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{authSvc: authSvc, healthSvc: healthSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))

	mux.Route("/auth", func(rt chi.Router) {
		rt.Use(middleware.RateLimitMiddleware(10, 1))
		rt.Post("/register", r.wrap(r.handleRegister))
		rt.Post("/login", r.wrap(r.handleLogin))
		rt.Post("/logout", r.wrap(r.handleLogout))
		rt.Get("/security-question", r.wrap(r.handleGetSecurityQuestion))
		rt.Post("/recover", r.wrap(r.handleRecover))
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.SessionAuth(authSvc.Sessions))
		rt.Post("/security-question", r.wrap(r.handleSetSecurityQuestion))
		rt.Get("/profile", r.wrap(r.handleGetProfile))
		rt.Put("/profile", r.wrap(r.handleSaveProfile))
		rt.Post("/uploads", r.wrap(r.handleUpload))
		rt.Get("/uploads", r.wrap(r.handleListUploads))
		rt.Post("/uploads/{id}/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/uploads/{id}/analysis", r.wrap(r.handleGetAnalysis))
		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/export.csv", r.wrap(r.handleExportCSV))
		rt.Post("/risk-assessment", r.wrap(r.handleAssessRisk))
		rt.Post("/insights", r.wrap(r.handleInsights))
		rt.Post("/reports", r.wrap(r.handleGenerateReport))
		rt.Get("/reports", r.wrap(r.handleListReports))
		rt.Get("/diet-plan", r.wrap(r.handleDietPlan))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain errors onto HTTP statuses; every failure stays a
// user-visible rejection, never a crash.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, users.ErrNotFound), errors.Is(err, uploads.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, appauth.ErrInvalidCredentials), errors.Is(err, appauth.ErrWrongSecurityAnswer):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, errBadRequest),
			errors.Is(err, appauth.ErrInvalidEmail),
			errors.Is(err, appauth.ErrPasswordTooShort),
			errors.Is(err, appauth.ErrNoSecurityQuestion),
			errors.Is(err, apphealth.ErrNoProfile):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domai.ErrNotConfigured):
			http.Error(w, "ai analysis is not configured", http.StatusServiceUnavailable)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /auth/register
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	u, err := r.authSvc.Register(req.Context(), body.Email, body.Password, body.FullName)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, u)
}

// POST /auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	sess, err := r.authSvc.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess)
}

// POST /auth/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	r.authSvc.Logout(body.Token)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /auth/security-question?email=
func (r *Router) handleGetSecurityQuestion(w http.ResponseWriter, req *http.Request) error {
	email := req.URL.Query().Get("email")
	question, err := r.authSvc.SecurityQuestion(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"question": question})
}

// POST /auth/recover
func (r *Router) handleRecover(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email       string `json:"email"`
		Answer      string `json:"answer"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := r.authSvc.RecoverPassword(req.Context(), body.Email, body.Answer, body.NewPassword); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

// POST /v1/security-question
func (r *Router) handleSetSecurityQuestion(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	email := middleware.EmailFromContext(req.Context())
	if err := r.authSvc.SetSecurityQuestion(req.Context(), email, body.Question, body.Answer); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "security question set"})
}

// GET /v1/profile
func (r *Router) handleGetProfile(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	p, err := r.healthSvc.Profile(req.Context(), email)
	if err != nil {
		return err
	}
	if p == nil {
		return apphealth.ErrNoProfile
	}
	return writeJSON(w, http.StatusOK, p)
}

// PUT /v1/profile
func (r *Router) handleSaveProfile(w http.ResponseWriter, req *http.Request) error {
	var body profiles.Profile
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	email := middleware.EmailFromContext(req.Context())
	p, err := r.healthSvc.SaveProfile(req.Context(), email, body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// POST /v1/uploads (multipart, field "file")
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return fmt.Errorf("parsing upload: %w", err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	email := middleware.EmailFromContext(req.Context())
	up, err := r.healthSvc.UploadScan(req.Context(), email, header.Filename, file, header.Size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, up)
}

// GET /v1/uploads
func (r *Router) handleListUploads(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	list, err := r.healthSvc.ListUploads(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/uploads/{id}/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	id, err := uploadID(req)
	if err != nil {
		return err
	}
	email := middleware.EmailFromContext(req.Context())
	a, err := r.healthSvc.AnalyzeUpload(req.Context(), email, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, a)
}

// GET /v1/uploads/{id}/analysis
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	id, err := uploadID(req)
	if err != nil {
		return err
	}
	email := middleware.EmailFromContext(req.Context())
	a, err := r.healthSvc.AnalysisForUpload(req.Context(), email, id)
	if err != nil {
		return err
	}
	if a == nil {
		http.Error(w, "not analyzed yet", http.StatusNotFound)
		return nil
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /v1/analyses
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	list, err := r.healthSvc.ListAnalyses(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/analyses/export.csv
func (r *Router) handleExportCSV(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="analyses.csv"`)
	return r.healthSvc.ExportAnalysesCSV(req.Context(), email, w)
}

// POST /v1/risk-assessment
func (r *Router) handleAssessRisk(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	out, err := r.healthSvc.AssessRisk(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

// POST /v1/insights
func (r *Router) handleInsights(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	out, err := r.healthSvc.Insights(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

// POST /v1/reports
func (r *Router) handleGenerateReport(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ReportType string `json:"report_type"`
		UploadID   *int64 `json:"upload_id,omitempty"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if body.ReportType == "" {
		body.ReportType = "health_summary"
	}
	email := middleware.EmailFromContext(req.Context())
	rep, err := r.healthSvc.GenerateReport(req.Context(), email, body.ReportType, body.UploadID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, rep)
}

// GET /v1/reports
func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	list, err := r.healthSvc.ListReports(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/diet-plan
func (r *Router) handleDietPlan(w http.ResponseWriter, req *http.Request) error {
	email := middleware.EmailFromContext(req.Context())
	plan, err := r.healthSvc.DietPlan(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, plan)
}

func uploadID(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid upload id: %w", uploads.ErrNotFound)
	}
	return id, nil
}
