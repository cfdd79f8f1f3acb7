package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) { HandleError(c, err) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body ErrorResponse
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), decodeErr)
	}
	return rec, body
}

func TestHandleErrorUsesKindStatus(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", apperr.Encoding("Lead Source: value \"Bing\" was not seen during training"))

	rec, body := serveError(t, err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if body.Kind != "encoding_error" {
		t.Fatalf("expected encoding_error kind, got %q", body.Kind)
	}
	if body.Detail != "Lead Source: value \"Bing\" was not seen during training" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestHandleErrorHidesUnclassifiedErrors(t *testing.T) {
	rec, body := serveError(t, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Detail != msgInternal || body.Kind != "internal_error" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestHandleErrorNil(t *testing.T) {
	engine := gin.New()
	handled := true
	engine.GET("/", func(c *gin.Context) {
		handled = HandleError(c, nil)
		c.Status(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if handled {
		t.Fatal("nil error should not be handled")
	}
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	var fromContext interface{}
	engine.GET("/", func(c *gin.Context) {
		fromContext = c.Request.Context().Value(logger.RequestIDKey)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(HeaderRequestID)
	if generated == "" || fromContext != generated {
		t.Fatalf("expected generated id on response and context, got %q / %v", generated, fromContext)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("expected inbound id to be reused, got %q", rec.Header().Get(HeaderRequestID))
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (o *recordingObserver) ObserveHTTPRequest(_ string, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, route)
	o.status = append(o.status, status)
}

func TestObserveRequestsUsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	engine := gin.New()
	engine.Use(ObserveRequests(observer))
	engine.GET("/leads/:leadNumber", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/leads/1", "/leads/2", "/missing"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	want := []string{"/leads/:leadNumber", "/leads/:leadNumber", "unmatched"}
	for i, route := range want {
		if observer.routes[i] != route {
			t.Fatalf("observation %d: expected route %q, got %q", i, route, observer.routes[i])
		}
	}
	if observer.status[2] != http.StatusNotFound {
		t.Fatalf("expected 404 for unmatched route, got %d", observer.status[2])
	}
}
