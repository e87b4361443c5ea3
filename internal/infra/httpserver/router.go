package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appai "github.com/bryanwahyu/medtrust/internal/application/ai"
	apprecords "github.com/bryanwahyu/medtrust/internal/application/records"
	"github.com/bryanwahyu/medtrust/internal/domain/ai"
	"github.com/bryanwahyu/medtrust/internal/domain/authenticity"
	domain "github.com/bryanwahyu/medtrust/internal/domain/records"
	"github.com/bryanwahyu/medtrust/internal/middleware"
)

type Router struct {
	recordsSvc *apprecords.Service
	aiSvc      *appai.Service
}

func NewRouter(recordsSvc *apprecords.Service, aiSvc *appai.Service) http.Handler {
	r := &Router{recordsSvc: recordsSvc, aiSvc: aiSvc}
	mux := chi.NewRouter()

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/records", r.wrap(r.handleCreate))
		rt.Get("/records", r.wrap(r.handleList))
		rt.Get("/records/latest", r.wrap(r.handleLatest))
		rt.Get("/records/stats", r.wrap(r.handleStats))
		rt.Get("/records/{id}", r.wrap(r.handleGet))
		rt.Put("/records/{id}", r.wrap(r.handleUpdate))
		rt.Delete("/records/{id}", r.wrap(r.handleArchive))
		rt.Post("/records/{id}/verify", r.wrap(r.handleVerify))
		rt.Post("/records/{id}/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/records/{id}/attachments", r.wrap(r.handleAttach))
		rt.Post("/records/{id}/summary", r.wrap(r.handleSummarize))
		rt.Get("/ai/summaries", r.wrap(r.handleListSummaries))
		rt.Post("/ai/chat", r.wrap(r.handleChat))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows), errors.Is(err, domain.ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, authenticity.ErrMissingDate),
				errors.Is(err, apprecords.ErrAccessLogTooLarge):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) error {
	http.Error(w, msg, http.StatusBadRequest)
	return nil
}

// actorFromRequest identifies who acts, for the record's access log.
func actorFromRequest(req *http.Request) apprecords.Actor {
	user := req.Header.Get("X-Actor")
	if user == "" {
		user = middleware.GetTenantFromContext(req.Context())
	}
	ip := req.RemoteAddr
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		ip = host
	}
	return apprecords.Actor{User: user, IPAddress: ip}
}

type recordBody struct {
	AthleteID   string            `json:"athlete_id"`
	Type        string            `json:"record_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	Provider    *domain.Provider  `json:"provider"`
	Diagnosis   *domain.Diagnosis `json:"diagnosis"`
	Treatment   *domain.Treatment `json:"treatment"`
	FollowUp    *domain.FollowUp  `json:"follow_up"`
}

// POST /v1/{tenant}/records
func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body recordBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}
	if err := middleware.ValidateRecordType(body.Type); err != nil {
		return badRequest(w, err.Error())
	}
	if body.Title == "" {
		return badRequest(w, "title is required")
	}
	if body.Date.IsZero() {
		return badRequest(w, "date is required")
	}
	if body.Diagnosis != nil {
		if err := middleware.ValidateSeverity(string(body.Diagnosis.Severity)); err != nil {
			return badRequest(w, err.Error())
		}
	}

	rec, err := r.recordsSvc.Create(req.Context(), apprecords.CreateRecordCommand{
		TenantID:    tenant,
		AthleteID:   body.AthleteID,
		Type:        body.Type,
		Title:       middleware.SanitizeString(body.Title),
		Description: middleware.SanitizeString(body.Description),
		Date:        body.Date,
		Provider:    body.Provider,
		Diagnosis:   body.Diagnosis,
		Treatment:   body.Treatment,
		FollowUp:    body.FollowUp,
	})
	if err != nil {
		return err
	}

	middleware.IncrementRecordsCreated()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(rec)
}

// GET /v1/{tenant}/records?page=&page_size=&type=&status=&athlete=&keyword=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	filters := map[string]interface{}{}
	for _, key := range []string{"type", "status", "athlete", "keyword"} {
		if v := req.URL.Query().Get(key); v != "" {
			filters[key] = v
		}
	}

	list, err := r.recordsSvc.Paginate(req.Context(), tenant, page, middleware.ValidateLimit(size), filters)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/records/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.recordsSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/records/stats?days=7
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	stats, err := r.recordsSvc.Stats(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}

// GET /v1/{tenant}/records/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	rec, err := r.recordsSvc.Get(req.Context(), tenant, domain.RecordID(id), actorFromRequest(req))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// PUT /v1/{tenant}/records/{id}
func (r *Router) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	var body struct {
		recordBody
		Date *time.Time `json:"date"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}
	if body.Diagnosis != nil {
		if err := middleware.ValidateSeverity(string(body.Diagnosis.Severity)); err != nil {
			return badRequest(w, err.Error())
		}
	}

	rec, err := r.recordsSvc.Update(req.Context(), tenant, domain.RecordID(id), apprecords.UpdateRecordCommand{
		Title:       middleware.SanitizeString(body.Title),
		Description: middleware.SanitizeString(body.Description),
		Date:        body.Date,
		Provider:    body.Provider,
		Diagnosis:   body.Diagnosis,
		Treatment:   body.Treatment,
		FollowUp:    body.FollowUp,
	}, actorFromRequest(req))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// DELETE /v1/{tenant}/records/{id} (soft delete)
func (r *Router) handleArchive(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	if err := r.recordsSvc.Archive(req.Context(), tenant, domain.RecordID(id), actorFromRequest(req)); err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"status": "archived", "id": id})
}

// POST /v1/{tenant}/records/{id}/verify
// Body: {"status": "verified" | "rejected"}
func (r *Router) handleVerify(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}
	if err := middleware.ValidateVerificationStatus(body.Status); err != nil {
		return badRequest(w, err.Error())
	}

	if err := r.recordsSvc.Verify(req.Context(), tenant, domain.RecordID(id), domain.VerificationStatus(body.Status), actorFromRequest(req)); err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"status": body.Status, "id": id})
}

// POST /v1/{tenant}/records/{id}/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	res, err := r.recordsSvc.Analyze(req.Context(), tenant, domain.RecordID(id), actorFromRequest(req))
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	if res.Authenticity.Score < 50 {
		middleware.IncrementFlagged()
	}
	return writeJSON(w, res)
}

// POST /v1/{tenant}/records/{id}/attachments (multipart field "file")
func (r *Router) handleAttach(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	if err := req.ParseMultipartForm(32 << 20); err != nil {
		return badRequest(w, "invalid multipart form")
	}
	file, hdr, err := req.FormFile("file")
	if err != nil {
		return badRequest(w, "file field is required")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "attachment-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	rec, err := r.recordsSvc.AttachFile(req.Context(), tenant, domain.RecordID(id),
		tmp.Name(), hdr.Filename, hdr.Header.Get("Content-Type"), actorFromRequest(req))
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return writeJSON(w, rec)
}

// POST /v1/{tenant}/records/{id}/summary
func (r *Router) handleSummarize(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest(w, err.Error())
	}

	rec, err := r.recordsSvc.Get(req.Context(), tenant, domain.RecordID(id), actorFromRequest(req))
	if err != nil {
		return err
	}

	sum, err := r.aiSvc.SummarizeAndStore(req.Context(), tenant, rec)
	if err != nil {
		return err
	}
	return writeJSON(w, sum)
}

// GET /v1/{tenant}/ai/summaries?page=&page_size=
func (r *Router) handleListSummaries(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.aiSvc.ListSummaries(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// POST /v1/{tenant}/ai/chat
// Body: {"message": "<question>"}
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}
	if body.Message == "" {
		return badRequest(w, "message is required")
	}

	reply, err := r.aiSvc.Chat(req.Context(), body.Message)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"reply": reply})
}
