package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/rohits-web03/warbler/internal/api/middleware"
	"github.com/rohits-web03/warbler/internal/metrics"
	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/rohits-web03/warbler/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type signUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ImageURL string `json:"imageUrl"`
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/v1/auth/sign-up
// RegisterUser godoc
// @Summary Create an account
// @Description Hashes the password and stores a new user. Username and email must be unused.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signUpInput true "New account"
// @Success 201 {object} utils.Payload "User registered successfully"
// @Failure 400 {object} utils.Payload "Invalid input"
// @Failure 409 {object} utils.Payload "Username or email already taken"
// @Router /api/v1/auth/sign-up [post]
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input signUpInput
	if err := decodeJSON(r, &input); err != nil {
		metrics.SignupFailure.WithLabelValues("invalid_json").Inc()
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		metrics.SignupFailure.WithLabelValues("missing_fields").Inc()
		utils.Fail(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		metrics.SignupFailure.WithLabelValues("invalid_email").Inc()
		utils.Fail(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(input.Password) < minPasswordLength {
		metrics.SignupFailure.WithLabelValues("short_password").Inc()
		utils.Fail(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := models.Signup(input.Username, input.Email, input.Password, input.ImageURL)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		metrics.SignupFailure.WithLabelValues("long_password").Inc()
		utils.Fail(w, http.StatusBadRequest, "Password is too long")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("hash password")
		utils.Fail(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := h.Store.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrConstraintViolation) {
			metrics.SignupFailure.WithLabelValues("taken").Inc()
		}
		h.storageError(w, err, "User not found", "Username or email already taken")
		return
	}

	metrics.SignupSuccess.Inc()
	utils.OK(w, http.StatusCreated, "User registered successfully", user)
}

// POST /api/v1/auth/login
// LoginUser godoc
// @Summary Log in
// @Description Verifies the credentials, sets the token cookie and returns the token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginInput true "Credentials"
// @Success 200 {object} utils.Payload "Login successful"
// @Failure 400 {object} utils.Payload "Invalid input"
// @Failure 401 {object} utils.Payload "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := decodeJSON(r, &input); err != nil || input.Username == "" || input.Password == "" {
		metrics.LoginFailure.WithLabelValues("invalid_input").Inc()
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.Store.Users.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		h.Log.Error().Err(err).Msg("authenticate")
		utils.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	if user == nil {
		metrics.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiration, err := h.Tokens.Issue(user)
	if err != nil {
		h.Log.Error().Err(err).Msg("sign token")
		utils.Fail(w, http.StatusInternalServerError, "Failed to create token")
		return
	}
	h.setTokenCookie(w, token, expiration)

	metrics.LoginSuccess.Inc()
	utils.OK(w, http.StatusOK, "Login successful", map[string]any{
		"token":     token,
		"expiresAt": expiration,
		"user":      user,
	})
}

// POST /api/v1/auth/logout
// Logout godoc
// @Summary Log out
// @Description Revokes the current token and clears the cookie.
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload "Logged out successfully"
// @Failure 401 {object} utils.Payload "Unauthorized"
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := middleware.Claims(r.Context()); claims != nil && claims.ExpiresAt != nil {
		if err := h.Denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.Log.Error().Err(err).Msg("revoke token")
			utils.Fail(w, http.StatusServiceUnavailable, "Session store unavailable")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.Cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.OK(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string, expiration time.Time) {
	isProd := h.Cfg.IsProduction()

	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiration).Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
}
