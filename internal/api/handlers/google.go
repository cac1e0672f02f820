package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/warbler/internal/api/services"
	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/rohits-web03/warbler/internal/utils"
)

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GET /api/v1/auth/google/login
// HandleGoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Param redirect query string false "login or register"
// @Success 307
// @Failure 404 {object} utils.Payload "Google sign-in is not configured"
// @Router /api/v1/auth/google/login [get]
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		utils.Fail(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	flow := r.URL.Query().Get("redirect")
	if flow != "register" {
		flow = "login"
	}

	state, err := GenerateState(h.Tokens.Secret, map[string]string{"flow": flow})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to generate OAuth state")
		return
	}
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/v1/auth/google/callback
// HandleGoogleCallback godoc
// @Summary Finish Google sign-in
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Failure 400 {object} utils.Payload "Invalid OAuth state"
// @Failure 502 {object} utils.Payload "Google user info unavailable"
// @Router /api/v1/auth/google/callback [get]
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		utils.Fail(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	stateData, err := DecodeState(h.Tokens.Secret, r.FormValue("state"))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	flow := stateData["flow"]

	token, err := h.OAuth.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.Log.Warn().Err(err).Msg("google code exchange failed")
		utils.Fail(w, http.StatusBadGateway, "Code exchange failed")
		return
	}

	userInfoURL := h.GoogleUserInfoURL
	if userInfoURL == "" {
		userInfoURL = services.GoogleUserInfoURL
	}
	resp, err := h.OAuth.Client(r.Context(), token).Get(userInfoURL)
	if err != nil {
		utils.Fail(w, http.StatusBadGateway, "Failed to get user info")
		return
	}
	defer resp.Body.Close()

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil || gu.Email == "" {
		utils.Fail(w, http.StatusBadGateway, "Failed to parse user info")
		return
	}
	// Accounts are matched by email, so it has to be one Google verified.
	if !gu.VerifiedEmail {
		h.redirect(w, r, "/login?error=email_not_verified")
		return
	}

	user, err := h.Store.Users.FindByEmail(r.Context(), gu.Email)
	switch {
	case err == nil && flow == "register":
		h.redirect(w, r, "/login?error=user_already_exists")
		return
	case errors.Is(err, repositories.ErrNotFound) && flow == "login":
		h.redirect(w, r, "/signup?error=user_not_found")
		return
	case errors.Is(err, repositories.ErrNotFound):
		user, err = h.createGoogleUser(r, gu)
		if err != nil {
			h.Log.Error().Err(err).Msg("create google user")
			utils.Fail(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
	case err != nil:
		h.storageError(w, err, "User not found", "Conflict")
		return
	}

	signed, expiration, err := h.Tokens.Issue(user)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to create JWT")
		return
	}
	h.setTokenCookie(w, signed, expiration)

	h.redirect(w, r, "/?status=success_"+flow)
}

// createGoogleUser signs up a Google account with an unguessable password.
// The username comes from the email local part, suffixed when taken.
func (h *Handler) createGoogleUser(r *http.Request, gu googleUser) (*models.User, error) {
	password, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, err
	}
	base := strings.SplitN(gu.Email, "@", 2)[0]

	user, err := models.Signup(base, gu.Email, password, gu.Picture)
	if err != nil {
		return nil, err
	}
	err = h.Store.Users.Create(r.Context(), user)
	if errors.Is(err, repositories.ErrConstraintViolation) {
		user.ID = 0
		user.Username = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		err = h.Store.Users.Create(r.Context(), user)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, h.Cfg.FrontendURL+path, http.StatusTemporaryRedirect)
}
