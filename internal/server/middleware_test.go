package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	h := AuthMiddleware("", okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsWrongToken(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestAuthMiddleware_AcceptsToken(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestAuthMiddleware_HealthExempt(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestCSRFMiddleware_GETExempt(t *testing.T) {
	h := CSRFMiddleware(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestCSRFMiddleware_BearerExempt(t *testing.T) {
	h := CSRFMiddleware(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestCSRFMiddleware_RejectsMissingCookie(t *testing.T) {
	h := CSRFMiddleware(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
	req.Header.Set("X-CSRF-Token", "tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestCSRFMiddleware_RejectsMismatch(t *testing.T) {
	h := CSRFMiddleware(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok-a"})
	req.Header.Set("X-CSRF-Token", "tok-b")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestCSRFMiddleware_AcceptsMatch(t *testing.T) {
	h := CSRFMiddleware(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	req.Header.Set("X-CSRF-Token", "tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestHandleCSRF_IssuesCookieAndToken(t *testing.T) {
	h := newTestServer(newMockStore(), Options{})
	rec := doRequest(t, h, http.MethodGet, "/api/csrf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	token := body["token"]
	if len(token) != 32 {
		t.Fatalf("got token %q", token)
	}

	var cookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookie = c.Value
		}
	}
	if cookie != token {
		t.Fatalf("cookie %q does not match token %q", cookie, token)
	}
}
