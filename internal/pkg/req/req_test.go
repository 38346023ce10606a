package req

import (
	"net/http/httptest"
	"strings"
	"testing"

	"uniconnect/internal/pkg/errs"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestBindJSON(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		wantCode    int // 0 means success
	}{
		{"valid", "application/json", `{"email":"a@example.com","password":"secret"}`, 0},
		{"charset suffix ok", "application/json; charset=utf-8", `{"email":"a@example.com"}`, 0},
		{"wrong content type", "text/plain", `{"email":"a@example.com"}`, errs.ErrUnsupportedMediaType},
		{"syntax error", "application/json", `{"email":`, errs.ErrInvalidJSONFormat},
		{"unknown field", "application/json", `{"email":"a@example.com","admin":true}`, errs.ErrInvalidJSONFormat},
		{"trailing content", "application/json", `{"email":"a@example.com"}{"extra":true}`, errs.ErrExtraContentInBody},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(c.body))
			r.Header.Set("Content-Type", c.contentType)

			var dst loginBody
			customErr := BindJSON(r, &dst)

			if c.wantCode == 0 {
				if customErr != nil {
					t.Fatalf("expected success, got %v", customErr)
				}
				return
			}
			if customErr == nil || customErr.Code != c.wantCode {
				t.Fatalf("got %v, want code %d", customErr, c.wantCode)
			}
		})
	}
}
