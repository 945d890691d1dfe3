package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zeebo/xxh3"
	"k8s.io/klog/v2"

	"velar-backend/internal/analysis"
	"velar-backend/internal/dataset"
	"velar-backend/internal/models"
	"velar-backend/internal/recommend"
)

const errWhitepaperMissing = "whitepaper not found on server path."

// Handler serves the dashboard API over one immutable Dataset.
type Handler struct {
	Dataset         *dataset.Dataset
	Recommendations *recommend.Catalog
	WhitepaperPath  string
}

func NewHandler(ds *dataset.Dataset, recs *recommend.Catalog, whitepaperPath string) *Handler {
	if ds == nil {
		ds = dataset.Empty()
	}
	if recs == nil {
		recs = recommend.Default()
	}
	return &Handler{
		Dataset:         ds,
		Recommendations: recs,
		WhitepaperPath:  whitepaperPath,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/summary", h.GetSummary)
	r.Get("/api/tools", h.ListTools)
	r.Get("/api/recommendations", h.GetRecommendations)
	r.Get("/api/download-whitepaper", h.DownloadWhitepaper)
	r.Get("/api/ping", h.Ping)
}

// ============================================================================
// Analytics
// ============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, models.SummaryResponse{
		Stats:      analysis.Summarize(h.Dataset),
		WhiteSpace: analysis.FindWhiteSpace(h.Dataset),
	})
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, analysis.Filter(h.Dataset, parseToolFilter(r)))
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.RecommendationsResponse{
		Recommendations: h.Recommendations.Phases(),
	})
}

// ============================================================================
// Whitepaper
// ============================================================================

func (h *Handler) DownloadWhitepaper(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(h.WhitepaperPath)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, errWhitepaperMissing)
		return
	}

	f, err := os.Open(h.WhitepaperPath)
	if err != nil {
		klog.ErrorS(err, "open whitepaper", "path", h.WhitepaperPath)
		writeError(w, http.StatusNotFound, errWhitepaperMissing)
		return
	}
	defer f.Close()

	name := filepath.Base(h.WhitepaperPath)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.PingResponse{
		Status:     "ok",
		ToolsCount: h.Dataset.Len(),
	})
}

// ============================================================================
// Helpers
// ============================================================================

// parseToolFilter reads the listing filters. Malformed values are dropped.
func parseToolFilter(r *http.Request) analysis.ToolFilter {
	q := r.URL.Query()
	f := analysis.ToolFilter{
		Category: q.Get("category"),
		Modality: q.Get("modality"),
		YearMin:  getOptionalIntParam(r, "year_min"),
		YearMax:  getOptionalIntParam(r, "year_max"),
	}
	switch q.Get("open") {
	case "0":
		f.Open = new(int)
	case "1":
		one := 1
		f.Open = &one
	}
	return f
}

func getOptionalIntParam(r *http.Request, name string) *int {
	valStr := strings.TrimSpace(r.URL.Query().Get(name))
	if valStr == "" {
		return nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return nil
	}
	return &val
}

// notModified sets an ETag derived from the dataset and request URI and
// answers 304 when the client already holds it.
func (h *Handler) notModified(w http.ResponseWriter, r *http.Request) bool {
	key := strconv.FormatUint(h.Dataset.Fingerprint(), 16) + " " + r.URL.RequestURI()
	tag := fmt.Sprintf(`"%016x"`, xxh3.HashString(key))
	w.Header().Set("ETag", tag)

	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.ErrorS(err, "encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
