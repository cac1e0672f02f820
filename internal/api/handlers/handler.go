package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rohits-web03/warbler/internal/api/services"
	"github.com/rohits-web03/warbler/internal/config"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/rohits-web03/warbler/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	Store    *repositories.Store
	Tokens   *services.TokenIssuer
	Denylist *repositories.TokenDenylist
	Objects  *repositories.ObjectStore
	OAuth    *oauth2.Config
	Cfg      config.Config
	Log      zerolog.Logger

	// GoogleUserInfoURL overrides services.GoogleUserInfoURL when set.
	GoogleUserInfoURL string
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return repositories.DefaultMessageLimit
	}
	return limit
}

// storageError writes the response for an error returned by a repository.
func (h *Handler) storageError(w http.ResponseWriter, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.Fail(w, http.StatusNotFound, notFound)
	case errors.Is(err, repositories.ErrConstraintViolation):
		utils.Fail(w, http.StatusConflict, conflict)
	default:
		h.Log.Error().Err(err).Msg("database error")
		utils.Fail(w, http.StatusInternalServerError, "Database error")
	}
}
