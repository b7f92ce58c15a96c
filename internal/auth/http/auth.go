package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/logind/internal/auth/service"
	"github.com/aussiebroadwan/logind/pkg/authsdk"
	"github.com/aussiebroadwan/logind/pkg/httpx"
	"github.com/aussiebroadwan/logind/pkg/slogx"
)

// Request bodies use pointers so a missing field can be told apart from an
// empty one.
type loginBody struct {
	UserName *string `json:"user_name"`
	Password *string `json:"password"`
}

type refreshBody struct {
	RefreshToken *string `json:"refresh_token"`
}

func decodeRefreshBody(r *http.Request) (string, bool) {
	var body refreshBody
	if err := httpx.DecodeJSON(r, &body); err != nil || body.RefreshToken == nil {
		return "", false
	}
	return *body.RefreshToken, true
}

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Verifies a username and password and issues an access token plus a new refresh token.
//	@Description	Unknown users and wrong passwords get the same 401 response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, refresh_token"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid user"
//	@Failure		422		{object}	authsdk.ErrorResponse	"invalid request body"
//	@Failure		500		{object}	authsdk.ErrorResponse	"internal server error"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body loginBody
	if err := httpx.DecodeJSON(r, &body); err != nil || body.UserName == nil || body.Password == nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, *body.UserName, *body.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// RefreshHandler serves POST /auth/refresh.
type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Refresh
//	@Description	Exchanges an active refresh token for a new access token. The refresh token is not rotated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RefreshRequest		true	"Refresh token"
//	@Success		200		{object}	authsdk.AccessTokenResponse	"access_token"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid user"
//	@Failure		422		{object}	authsdk.ErrorResponse		"invalid request body"
//	@Failure		500		{object}	authsdk.ErrorResponse		"internal server error"
//	@Header			200		{string}	Cache-Control				"no-store"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := decodeRefreshBody(r)
	if !ok {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	access, err := h.AuthService.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AccessTokenResponse{AccessToken: access.AccessToken})
}

// LogoutHandler serves POST /auth/logout. Unknown, expired and already
// revoked tokens all get 200, and store failures are only logged.
type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Revokes a refresh token. Idempotent: always returns 200 for a well-formed request,
//	@Description	whether or not the token exists or was already revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.MessageResponse	"successfully logout"
//	@Failure		422		{object}	authsdk.ErrorResponse	"invalid request body"
//	@Router			/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := decodeRefreshBody(r)
	if !ok {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(ctx, token); err != nil {
		slogx.FromContext(ctx).Warn("logout revoke failed", "err", err)
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: authsdk.LogoutMessage})
}

// writeServiceError maps service errors onto responses. Anything that is not
// an authentication failure is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefresh):
		authsdk.ErrInvalidUser.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
