package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/babralau/timesheet-web-go/internal/domain/auth"
	"github.com/babralau/timesheet-web-go/internal/domain/user"
	"github.com/babralau/timesheet-web-go/internal/handler/http/middleware"
	"github.com/babralau/timesheet-web-go/internal/handler/http/response"
	"github.com/babralau/timesheet-web-go/internal/pkg/jwt"
	"github.com/babralau/timesheet-web-go/internal/pkg/oauth"
)

// Identity is the slice of the upstream client the auth handler uses.
type Identity interface {
	Login(ctx context.Context, username, password string) (user.User, error)
	ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error
	AddUser(ctx context.Context, req auth.AddUserRequest) error
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	AddUser(w http.ResponseWriter, r *http.Request)
	GoogleRedirect(w http.ResponseWriter, r *http.Request)
	GoogleCallback(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	identity   Identity
	jwtService jwt.Service
	google     oauth.GoogleService
	logger     *slog.Logger
}

func NewAuthHandler(identity Identity, jwtService jwt.Service, google oauth.GoogleService, logger *slog.Logger) AuthHandler {
	return &AuthHandlerImpl{
		identity:   identity,
		jwtService: jwtService,
		google:     google,
		logger:     logger,
	}
}

type tokenPayload struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   int64     `json:"expires_at"`
	User        user.User `json:"user"`
}

func (h *AuthHandlerImpl) issueToken(w http.ResponseWriter, u user.User) {
	token, expiresAt, err := h.jwtService.GenerateAccessToken(u)
	if err != nil {
		h.logger.Error("generating access token failed", "employee_id", u.EmployeeID, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	response.Success(w, http.StatusOK, "Login successful", tokenPayload{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        u,
	})
}

// Login proxies the credentials to the upstream API and wraps the
// returned identity in a session token.
func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	u, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.issueToken(w, u)
}

// Me returns the identity context behind the session token.
func (h *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	response.Success(w, http.StatusOK, "", u)
}

func (h *AuthHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.identity.ChangePassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Password changed", nil)
}

func (h *AuthHandlerImpl) AddUser(w http.ResponseWriter, r *http.Request) {
	var req auth.AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.identity.AddUser(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "User created", nil)
}

const oauthStateCookie = "oauth_state"

// GoogleRedirect starts the Google sign-in flow.
func (h *AuthHandlerImpl) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		response.Error(w, http.StatusNotFound, "Google sign-in is not configured", nil)
		return
	}
	state := h.google.GenerateState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.RedirectURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback completes the flow. Google only proves who the person
// is; the employee record still comes from the upstream API, which
// holds the Google subject id as the account credential.
func (h *AuthHandlerImpl) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		response.Error(w, http.StatusNotFound, "Google sign-in is not configured", nil)
		return
	}
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		response.Error(w, http.StatusBadRequest, "Invalid OAuth state", nil)
		return
	}
	token, err := h.google.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn("google code exchange failed", "error", err)
		response.Error(w, http.StatusBadRequest, "OAuth exchange failed", nil)
		return
	}
	account, err := h.google.FetchUser(r.Context(), token)
	if err != nil {
		h.logger.Warn("fetching google account failed", "error", err)
		response.Error(w, http.StatusBadGateway, "Fetching Google account failed", nil)
		return
	}
	if !account.VerifiedEmail {
		response.HandleError(w, auth.ErrUnknownGoogleUser)
		return
	}
	u, err := h.identity.Login(r.Context(), account.Email, account.GoogleID)
	if err != nil {
		h.logger.Warn("google account has no upstream user", "email", account.Email)
		response.HandleError(w, auth.ErrUnknownGoogleUser)
		return
	}
	h.issueToken(w, u)
}
