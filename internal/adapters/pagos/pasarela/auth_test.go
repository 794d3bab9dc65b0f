package pasarela

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/testutil"
)

func TestAuthManager_GetToken_CacheaElToken(t *testing.T) {
	var peticiones atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		peticiones.Add(1)
		if r.URL.Path != "/api/auth/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Write([]byte("token-abc\n"))
	}))
	defer server.Close()

	auth := NewAuthManager(server.URL, "usuario", "clave", time.Hour, server.Client(), testutil.NewNullLogger())

	token, err := auth.GetToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "token-abc" {
		t.Errorf("expected trimmed token, got %q", token)
	}

	// Mientras el token siga vigente no se vuelve a llamar a la pasarela.
	if _, err := auth.GetToken(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := peticiones.Load(); got != 1 {
		t.Errorf("expected 1 auth request, got %d", got)
	}
}

func TestAuthManager_GetToken_EstadoNoOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "credenciales inválidas", http.StatusForbidden)
	}))
	defer server.Close()

	auth := NewAuthManager(server.URL, "usuario", "clave", time.Hour, server.Client(), testutil.NewNullLogger())

	if _, err := auth.GetToken(context.Background()); err == nil {
		t.Fatal("expected error for non-200 auth response")
	} else if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestAuthManager_GetToken_TokenVacio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n"))
	}))
	defer server.Close()

	auth := NewAuthManager(server.URL, "usuario", "clave", time.Hour, server.Client(), testutil.NewNullLogger())

	if _, err := auth.GetToken(context.Background()); err == nil {
		t.Fatal("expected error for empty token body")
	}
}

func TestAuthManager_ClearToken_FuerzaRenovacion(t *testing.T) {
	var peticiones atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		peticiones.Add(1)
		w.Write([]byte("token-abc"))
	}))
	defer server.Close()

	auth := NewAuthManager(server.URL, "usuario", "clave", time.Hour, server.Client(), testutil.NewNullLogger())

	if _, err := auth.GetToken(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	auth.ClearToken()
	if _, err := auth.GetToken(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := peticiones.Load(); got != 2 {
		t.Errorf("expected 2 auth requests after ClearToken, got %d", got)
	}
}
