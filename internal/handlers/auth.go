package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/user-mgmt/apiserver/internal/auth"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/pkg/logger"
)

// AuthHandler provides the token-issuance endpoint.
type AuthHandler struct {
	userService *services.UserService
	tokens      *auth.TokenService
}

func NewAuthHandler(userService *services.UserService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{userService: userService, tokens: tokens}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, tokens *auth.TokenService) {
	handler := NewAuthHandler(userService, tokens)

	r.Post("/token", handler.Token)
}

// TokenResponse is the successful login payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token verifies form-encoded credentials and issues a bearer token with
// the account username as subject. Account status is not checked here;
// status gating happens at authorization time.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	account, ok, err := h.userService.Authenticate(r.Context(), username, password)
	if err != nil {
		lg := logger.Get()
		lg.Error().Err(err).Msg("authenticate failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeUnauthorized(w, "Incorrect username or password")
		return
	}

	token, err := h.tokens.Issue(account.Username)
	if err != nil {
		lg := logger.Get()
		lg.Error().Err(err).Msg("token issuance failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RequireUser validates the bearer token, re-resolves the subject to an
// account on every request, and injects it into the request context. Stale
// subjects (account deleted since issuance) are rejected.
func RequireUser(tokens *auth.TokenService, userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeUnauthorized(w, "Not authenticated")
				return
			}

			subject, err := tokens.Validate(tokenString)
			if err != nil {
				writeUnauthorized(w, "Could not validate credentials")
				return
			}

			account, err := userService.GetByUsername(r.Context(), subject)
			if err != nil {
				writeUnauthorized(w, "Could not validate credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), account)))
		})
	}
}

// RequireActiveUser rejects accounts whose status is not ACTIVE. Must be
// chained after RequireUser.
func RequireActiveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		if !account.IsActive() {
			writeDetail(w, http.StatusBadRequest, "Inactive user")
			return
		}
		next.ServeHTTP(w, r)
	})
}
