package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveLoad(t *testing.T) {
	m := NewRecorder()

	m.ObserveLoad(42, nil)
	m.ObserveLoad(0, errors.New("boom"))

	if got := testutil.ToFloat64(m.datasetRows); got != 0 {
		t.Errorf("datasetRows=%v want 0 after failed load", got)
	}
	if got := testutil.ToFloat64(m.loads.WithLabelValues("success")); got != 1 {
		t.Errorf("success loads=%v want 1", got)
	}
	if got := testutil.ToFloat64(m.loads.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure loads=%v want 1", got)
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := NewRecorder()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/api/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	for _, path := range []string{"/api/items/1", "/api/items/2", "/api/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/items/{id}", "GET", "200")); got != 2 {
		t.Errorf("items requests=%v want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/missing", "GET", "404")); got != 1 {
		t.Errorf("missing requests=%v want 1", got)
	}
}

func TestHandler_Exposes(t *testing.T) {
	m := NewRecorder()
	m.ObserveLoad(3, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "velar_dataset_rows 3") {
		t.Fatalf("metrics output missing dataset gauge:\n%s", body)
	}
}
