package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"leadscore_backend/internal/leads/leadtest"
	"leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/leads/service"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/db"
	"leadscore_backend/platform/httpkit"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if _, err := db.Migrate(ctx, sqlDB, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := service.New(repository.NewSQLite(sqlDB), leadtest.EncoderTable(t), leadtest.Engine(t), validator.New(), logger.Discard())
	h := New(svc)

	engine := gin.New()
	engine.POST("/predict", h.Predict)
	h.RegisterRoutes(engine.Group("/api/v1/leads"))
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func leadBody(t *testing.T, mutate func(map[string]any)) []byte {
	t.Helper()
	raw, err := json.Marshal(transport.FromLead(leadtest.Lead(1001)))
	if err != nil {
		t.Fatal(err)
	}
	if mutate == nil {
		return raw
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	mutate(m)
	raw, err = json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpkit.ErrorResponse {
	t.Helper()
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestPredictScoresThenReportsDuplicate(t *testing.T) {
	engine := newTestRouter(t)

	rec := do(t, engine, http.MethodPost, "/predict", leadBody(t, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"score":22.5}` {
		t.Fatalf("unexpected body %s", got)
	}

	rec = do(t, engine, http.MethodPost, "/predict", leadBody(t, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"Lead already exists in the database."}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestPredictRejectsBadInput(t *testing.T) {
	engine := newTestRouter(t)

	cases := map[string]struct {
		body   []byte
		status int
		kind   string
	}{
		"malformed json": {[]byte(`{"Lead_Number":`), http.StatusBadRequest, "validation_error"},
		"wrong type": {leadBody(t, func(m map[string]any) { m["TotalVisits"] = "3" }),
			http.StatusBadRequest, "validation_error"},
		"missing required": {leadBody(t, func(m map[string]any) { delete(m, "Lead_Origin") }),
			http.StatusBadRequest, "validation_error"},
		"unseen category": {leadBody(t, func(m map[string]any) { m["Lead_Origin"] = "Carrier Pigeon" }),
			http.StatusUnprocessableEntity, "encoding_error"},
	}
	for name, tc := range cases {
		rec := do(t, engine, http.MethodPost, "/predict", tc.body)
		if rec.Code != tc.status {
			t.Errorf("%s: expected %d, got %d: %s", name, tc.status, rec.Code, rec.Body.String())
			continue
		}
		if resp := decodeError(t, rec); resp.Kind != tc.kind || resp.Detail == "" {
			t.Errorf("%s: unexpected error body %+v", name, resp)
		}
	}
}

func TestPredictIgnoresUnknownFieldsAndNulls(t *testing.T) {
	engine := newTestRouter(t)

	body := leadBody(t, func(m map[string]any) {
		m["Prospect_ID"] = "7927b2df-8bba-4d29-b9a2-b6e0beafe620"
		m["City"] = nil
		delete(m, "Asymmetrique_Activity_Score")
	})
	rec := do(t, engine, http.MethodPost, "/predict", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetByLeadNumber(t *testing.T) {
	engine := newTestRouter(t)

	if rec := do(t, engine, http.MethodGet, "/api/v1/leads/1001", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before scoring, got %d", rec.Code)
	}
	if rec := do(t, engine, http.MethodGet, "/api/v1/leads/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric lead number, got %d", rec.Code)
	}

	do(t, engine, http.MethodPost, "/api/v1/leads/predict", leadBody(t, nil))

	rec := do(t, engine, http.MethodGet, "/api/v1/leads/1001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.LeadRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score != leadtest.SampleScore || *resp.Lead.LeadNumber != 1001 || resp.ID == 0 {
		t.Fatalf("unexpected record %+v", resp)
	}
}
