package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newSessionRouter(opts SessionOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(opts))
	r.GET("/ping", func(c *gin.Context) {
		sid, ok := SessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"sid": sid, "ok": ok})
	})
	return r
}

func TestSession_ReusesValidHeader(t *testing.T) {
	r := newSessionRouter(SessionOptions{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderSessionID, "client-session.01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get(HeaderSessionID); got != "client-session.01" {
		t.Fatalf("response header = %q", got)
	}
	var body struct {
		SID string `json:"sid"`
		OK  bool   `json:"ok"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || body.SID != "client-session.01" {
		t.Fatalf("SessionFrom = %+v", body)
	}
}

func TestSession_GeneratesWhenAbsent(t *testing.T) {
	r := newSessionRouter(SessionOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	sid := w.Header().Get(HeaderSessionID)
	if sid == "" {
		t.Fatalf("no session id echoed")
	}
	if _, err := uuid.Parse(sid); err != nil {
		t.Fatalf("generated id is not a UUID: %q", sid)
	}
}

func TestSession_RejectsInvalidHeader(t *testing.T) {
	r := newSessionRouter(SessionOptions{})

	cases := map[string]string{
		"whitespace": "has space",
		"control":    "bad\nvalue",
		"too_long":   strings.Repeat("a", 65),
	}
	for name, sid := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(HeaderSessionID, sid)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "bad_session_id") {
				t.Fatalf("body = %s", w.Body.String())
			}
		})
	}
}

func TestSession_CustomPatternAndLength(t *testing.T) {
	r := newSessionRouter(SessionOptions{
		MaxLen:  8,
		Pattern: regexp.MustCompile(`^[0-9]+$`),
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderSessionID, "12345678")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("digits within limit should pass, status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderSessionID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("letters should fail the custom pattern, status = %d", w.Code)
	}
}

func TestSessionFrom_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := SessionFrom(c); ok {
		t.Fatalf("SessionFrom should report absence")
	}
}
