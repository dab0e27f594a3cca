package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
)

type loginBody struct {
	Cedula     string `json:"cedula" validate:"required"`
	Contrasena string `json:"contrasena" validate:"required,max=72"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cedula":"111","contrasena":"secret"}`))
	var body loginBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Cedula != "111" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cedula":""}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", typed.Details())
	}
	if details["cedula"] != "es obligatorio" || details["contrasena"] != "es obligatorio" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{`{`, `{"cedula":"1","contrasena":"x","extra":1}`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		var body loginBody
		if !pkgerrors.IsCode(DecodeJSONBody(r, &body), pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %s", raw)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	if v, err := ParseQueryInt(r, "limit", 20, 1, 100); err != nil || v != 5 {
		t.Fatalf("expected 5, got %d %v", v, err)
	}
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if v, err := ParseQueryInt(r, "limit", 20, 1, 100); err != nil || v != 20 {
		t.Fatalf("expected default 20, got %d %v", v, err)
	}
	for _, q := range []string{"/?limit=abc", "/?limit=0", "/?limit=101"} {
		r = httptest.NewRequest(http.MethodGet, q, nil)
		if _, err := ParseQueryInt(r, "limit", 20, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %s, got %v", q, err)
		}
	}
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for k, v := range files {
		fw, err := mw.CreateFormFile(k, k+".bin")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := fw.Write(v); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestMultipartHelpers(t *testing.T) {
	r := multipartRequest(t, map[string]string{"nombre": "  Ana  "}, map[string][]byte{"foto": []byte("abc"), "vacia": {}})
	w := httptest.NewRecorder()
	if err := ParseMultipartForm(w, r, 1<<20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	if got := FormValue(r, "nombre", 64); got != "Ana" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := FormValue(r, "missing", 64); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}

	data, err := ReadFormFile(r, "foto", 10)
	if err != nil || string(data) != "abc" {
		t.Fatalf("unexpected file read %q %v", data, err)
	}
	if _, err := ReadFormFile(r, "foto", 2); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected size validation error, got %v", err)
	}
	if _, err := ReadFormFile(r, "vacia", 10); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected empty file validation error, got %v", err)
	}
	if _, err := ReadFormFile(r, "missing", 10); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected missing file validation error, got %v", err)
	}
}

func TestParseMultipartFormRejectsOtherContentTypes(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	r.Header.Set("Content-Type", "application/json")
	if err := ParseMultipartForm(httptest.NewRecorder(), r, 1<<20); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  abcdef ", 3); got != "abc" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	if got := SanitizeString(" Muñoz Peña ", 4); got != "Muño" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
	if got := SanitizeString(" Peña ", 0); got != "Peña" {
		t.Fatalf("expected no cut without a limit, got %q", got)
	}
}
