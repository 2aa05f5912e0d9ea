package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
)

type sampleBody struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","quantity":1,"role":"admin"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","quantity":0}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity detail %q", details["quantity"])
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&per_page=500&bad=x", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 1000); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 12, 1, 100); err != nil || v != 12 {
		t.Fatalf("expected default, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "per_page", 12, 1, 100); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := ParseQueryInt(req, "bad", 12, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
}

func TestPathUUID(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id.String())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	got, err := PathUUID(req, "id", "product not found")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s %v", id, got, err)
	}

	rc = chi.NewRouteContext()
	rc.URLParams.Add("id", "42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	_, err = PathUUID(req, "id", "product not found")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?featured=TRUE&other=no", nil)
	if !QueryBool(req, "featured") {
		t.Fatal("expected featured true")
	}
	if QueryBool(req, "other") || QueryBool(req, "missing") {
		t.Fatal("expected false values")
	}
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	if got := SanitizeString("  anillo  ", 100); got != "anillo" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := SanitizeString("pendientes ñandú", 12); got != "pendientes ñ" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
}
