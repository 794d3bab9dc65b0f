package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/config"
	httperrors "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
)

// ContextKeyToken exposes the verified JWT token via request context.
type ContextKeyToken struct{}

// ContextKeyActor exposes the authenticated actor (id + rol) via request context.
type ContextKeyActor struct{}

// ActorDesdeContexto devuelve el actor autenticado de la petición.
func ActorDesdeContexto(ctx context.Context) (solicitud.Actor, bool) {
	actor, ok := ctx.Value(ContextKeyActor{}).(solicitud.Actor)
	return actor, ok
}

// ContextoConActor inyecta un actor en el contexto. Lo usan los tests de
// handlers para simular peticiones autenticadas.
func ContextoConActor(ctx context.Context, actor solicitud.Actor) context.Context {
	return context.WithValue(ctx, ContextKeyActor{}, actor)
}

// JWTAuthenticator validates Authorization headers against a remote JWKS.
type JWTAuthenticator struct {
	cfg        config.AuthSettings
	log        *slog.Logger
	jwks       keyfunc.Keyfunc
	cancel     context.CancelFunc
	bypassPath map[string]struct{}
}

func NewJWTAuthenticator(cfg config.AuthSettings, log *slog.Logger) (*JWTAuthenticator, error) {
	auth := &JWTAuthenticator{
		cfg:        cfg,
		log:        log,
		bypassPath: make(map[string]struct{}),
	}

	for _, path := range cfg.BypassPaths {
		if path != "" {
			auth.bypassPath[path] = struct{}{}
		}
	}

	if !cfg.Enabled {
		return auth, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	override := keyfunc.Override{
		RefreshInterval: 6 * time.Hour,
		RefreshErrorHandlerFunc: func(url string) func(context.Context, error) {
			return func(c context.Context, err error) {
				log.Error("failed to refresh JWKS", "url", url, "error", err)
			}
		},
		HTTPTimeout: 10 * time.Second,
	}

	jwks, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{cfg.JWKSetURI}, override)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("unable to load JWKS: %w", err)
	}
	auth.jwks = jwks
	auth.cancel = cancel

	return auth, nil
}

// Middleware enforces JWT validation on inbound requests and resolves the
// actor (user id and role) from the token claims.
func (a *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	if !a.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.shouldBypass(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Credenciales de acceso no válidas"}, a.log)
			return
		}

		token, err := jwt.Parse(tokenString, a.jwks.Keyfunc,
			jwt.WithIssuer(a.cfg.IssuerURI),
			jwt.WithLeeway(a.cfg.ClockSkew),
			jwt.WithValidMethods([]string{
				jwt.SigningMethodRS256.Alg(),
				jwt.SigningMethodRS384.Alg(),
				jwt.SigningMethodRS512.Alg(),
				jwt.SigningMethodPS256.Alg(),
				jwt.SigningMethodES256.Alg(),
			}),
		)
		if err != nil || !token.Valid {
			a.log.Warn("token validation failed", "error", err)
			httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Token inválido o expirado"}, a.log)
			return
		}

		actor, err := actorDesdeClaims(token)
		if err != nil {
			a.log.Warn("token claims incomplete", "error", err)
			httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"El token no identifica al usuario"}, a.log)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyToken{}, token)
		ctx = context.WithValue(ctx, ContextKeyActor{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorDesdeClaims resuelve id y rol del usuario a partir de los claims.
// El id viene en "user_id" o, en su defecto, en "sub"; el rol en "rol".
func actorDesdeClaims(token *jwt.Token) (solicitud.Actor, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return solicitud.Actor{}, errors.New("unexpected claims type")
	}

	id, err := claimNumerico(claims, "user_id")
	if err != nil {
		id, err = claimNumerico(claims, "sub")
		if err != nil {
			return solicitud.Actor{}, fmt.Errorf("resolve user id: %w", err)
		}
	}

	rolCrudo, _ := claims["rol"].(string)
	rol, ok := solicitud.ParseRol(rolCrudo)
	if !ok {
		return solicitud.Actor{}, fmt.Errorf("rol desconocido %q", rolCrudo)
	}

	return solicitud.Actor{ID: id, Rol: rol}, nil
}

func claimNumerico(claims jwt.MapClaims, nombre string) (int64, error) {
	valor, ok := claims[nombre]
	if !ok {
		return 0, fmt.Errorf("claim %q missing", nombre)
	}
	switch v := valor.(type) {
	case float64:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("claim %q is not numeric: %w", nombre, err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("claim %q has unexpected type %T", nombre, valor)
	}
}

// Close stops background JWKS refreshers.
func (a *JWTAuthenticator) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *JWTAuthenticator) shouldBypass(path string) bool {
	_, ok := a.bypassPath[path]
	return ok
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}
