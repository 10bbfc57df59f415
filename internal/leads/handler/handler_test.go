package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evinstallers_backend/internal/leads/transport"
	"evinstallers_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func submitBadPayload(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// The handler rejects invalid payloads before touching the service, so
	// none is needed here.
	h := New(nil, validator.New())
	engine := gin.New()
	h.RegisterPublicRoutes(engine.Group("/api/v1/leads"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSubmitRejectsBadEmailWithFieldViolation(t *testing.T) {
	rec := submitBadPayload(t, `{"name":"Jane Doe","email":"not-an-email","zipCode":"78701"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"field":"email"`) {
		t.Fatalf("violations do not name the email field: %s", body)
	}
	if !strings.Contains(body, "must be a valid email address") {
		t.Fatalf("missing email violation message: %s", body)
	}
}

func TestSubmitRejectsShortZipWithFieldViolation(t *testing.T) {
	rec := submitBadPayload(t, `{"name":"Jane Doe","email":"jane@example.com","zipCode":"787"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"zipCode"`) {
		t.Fatalf("violations do not name the zipCode field: %s", rec.Body.String())
	}
}

func TestViolationsMapStructFieldsToJSONNames(t *testing.T) {
	val := validator.New()
	req := transport.SubmitLeadRequest{Name: "J", Email: "not-an-email", ZipCode: "787"}
	req.Normalize()

	err := val.Struct(req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := violations(err)
	fields := make(map[string]string, len(got))
	for _, v := range got {
		fields[v.Field] = v.Message
	}

	if _, ok := fields["email"]; !ok {
		t.Fatalf("missing email violation: %v", got)
	}
	if _, ok := fields["zipCode"]; !ok {
		t.Fatalf("missing zipCode violation: %v", got)
	}
	if msg := fields["name"]; !strings.Contains(msg, "at least 2") {
		t.Fatalf("unexpected name violation message: %q", msg)
	}
}
