package handlers

import (
	"context"
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
)

const avatarUploadExpiry = 15 * time.Minute

// Profile is a user together with counts and the caller's relation to them.
type Profile struct {
	models.User
	Messages     int64 `json:"messages"`
	Followers    int64 `json:"followers"`
	Following    int64 `json:"following"`
	IsFollowing  bool  `json:"isFollowing"`
	IsFollowedBy bool  `json:"isFollowedBy"`
}

type updateProfileInput struct {
	Email          *string `json:"email"`
	ImageURL       *string `json:"imageUrl"`
	HeaderImageURL *string `json:"headerImageUrl"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
}

type avatarPresignInput struct {
	ContentType string `json:"contentType"`
}

type avatarCompleteInput struct {
	Key string `json:"key"`
}

// GET /api/v1/users/{id}
// GetUser godoc
// @Summary Show a user profile
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} utils.Payload "User retrieved successfully"
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx := r.Context()
	user, err := h.Store.Users.FindByID(ctx, id)
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}

	profile, err := h.buildProfile(ctx, user, middleware.UserID(ctx))
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}

	utils.OK(w, http.StatusOK, "User retrieved successfully", profile)
}

// GET /api/v1/users/me
// GetMe godoc
// @Summary Show the caller's own profile
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Payload "User retrieved successfully"
// @Router /api/v1/users/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.Store.Users.FindByID(ctx, middleware.UserID(ctx))
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	profile, err := h.buildProfile(ctx, user, user.ID)
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "User retrieved successfully", profile)
}

func (h *Handler) buildProfile(ctx context.Context, user *models.User, callerID uint) (Profile, error) {
	p := Profile{User: *user}
	var err error
	if p.Messages, err = h.Store.Messages.CountByUser(ctx, user.ID); err != nil {
		return p, err
	}
	if p.Followers, err = h.Store.Follows.CountFollowers(ctx, user.ID); err != nil {
		return p, err
	}
	if p.Following, err = h.Store.Follows.CountFollowing(ctx, user.ID); err != nil {
		return p, err
	}
	if callerID == 0 || callerID == user.ID {
		return p, nil
	}
	// Relative to the caller: does the caller follow them, do they follow the caller.
	if p.IsFollowing, err = h.Store.Follows.IsFollowing(ctx, callerID, user.ID); err != nil {
		return p, err
	}
	p.IsFollowedBy, err = h.Store.Follows.IsFollowedBy(ctx, callerID, user.ID)
	return p, err
}

// PATCH /api/v1/users/me
// UpdateMe godoc
// @Summary Edit the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param body body updateProfileInput true "Fields to change"
// @Success 200 {object} utils.Payload "Profile updated"
// @Failure 409 {object} utils.Payload "Email already taken"
// @Router /api/v1/users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var input updateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx := r.Context()
	user, err := h.Store.Users.FindByID(ctx, middleware.UserID(ctx))
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			utils.Fail(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		user.Email = email
	}
	if input.ImageURL != nil {
		user.ImageURL = *input.ImageURL
		if user.ImageURL == "" {
			user.ImageURL = models.DefaultImageURL
		}
	}
	if input.HeaderImageURL != nil {
		user.HeaderImageURL = *input.HeaderImageURL
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Location != nil {
		user.Location = *input.Location
	}

	if err := h.Store.Users.Update(ctx, user); err != nil {
		h.storageError(w, err, "User not found", "Email already taken")
		return
	}
	utils.OK(w, http.StatusOK, "Profile updated", user)
}

// DELETE /api/v1/users/me
// DeleteMe godoc
// @Summary Delete the caller's account
// @Description Removes the user, their messages and every follow edge touching them.
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Payload "Account deleted"
// @Router /api/v1/users/me [delete]
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Store.Users.Delete(ctx, middleware.UserID(ctx)); err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	if claims := middleware.Claims(ctx); claims != nil && claims.ExpiresAt != nil {
		if err := h.Denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			h.Log.Warn().Err(err).Msg("revoke token of deleted user")
		}
	}
	utils.OK(w, http.StatusOK, "Account deleted", nil)
}

// GET /api/v1/users/{id}/followers
// ListFollowers godoc
// @Summary List who follows a user
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	h.listRelation(w, r, h.Store.Follows.Followers)
}

// GET /api/v1/users/{id}/following
// ListFollowing godoc
// @Summary List who a user follows
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	h.listRelation(w, r, h.Store.Follows.Following)
}

func (h *Handler) listRelation(w http.ResponseWriter, r *http.Request, list func(context.Context, uint) ([]models.User, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if _, err := h.Store.Users.FindByID(r.Context(), id); err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	users, err := list(r.Context(), id)
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Users retrieved successfully", users)
}

// POST /api/v1/users/{id}/follow
// FollowUser godoc
// @Summary Follow a user
// @Tags Users
// @Produce json
// @Param id path int true "User to follow"
// @Success 201 {object} utils.Payload "Now following"
// @Failure 400 {object} utils.Payload "Users cannot follow themselves"
// @Failure 404 {object} utils.Payload "User not found"
// @Failure 409 {object} utils.Payload "Already following"
// @Router /api/v1/users/{id}/follow [post]
func (h *Handler) FollowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx := r.Context()
	if _, err := h.Store.Users.FindByID(ctx, id); err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}

	err := h.Store.Follows.Follow(ctx, middleware.UserID(ctx), id)
	if errors.Is(err, repositories.ErrSelfFollow) {
		utils.Fail(w, http.StatusBadRequest, "Users cannot follow themselves")
		return
	}
	if err != nil {
		h.storageError(w, err, "User not found", "Already following")
		return
	}

	metrics.FollowsCreated.Inc()
	utils.OK(w, http.StatusCreated, "Now following", nil)
}

// DELETE /api/v1/users/{id}/follow
// UnfollowUser godoc
// @Summary Stop following a user
// @Tags Users
// @Produce json
// @Param id path int true "User to unfollow"
// @Success 200 {object} utils.Payload "Unfollowed"
// @Failure 404 {object} utils.Payload "Not following"
// @Router /api/v1/users/{id}/follow [delete]
func (h *Handler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	ctx := r.Context()
	if err := h.Store.Follows.Unfollow(ctx, middleware.UserID(ctx), id); err != nil {
		h.storageError(w, err, "Not following", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Unfollowed", nil)
}

// POST /api/v1/users/me/avatar/presign
// PresignAvatar godoc
// @Summary Get an upload URL for a profile image
// @Tags Users
// @Accept json
// @Produce json
// @Param body body avatarPresignInput false "Image content type"
// @Success 200 {object} utils.Payload "Presigned upload URL generated successfully"
// @Failure 503 {object} utils.Payload "Object storage is not configured"
// @Router /api/v1/users/me/avatar/presign [post]
func (h *Handler) PresignAvatar(w http.ResponseWriter, r *http.Request) {
	if h.Objects == nil {
		utils.Fail(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}
	var input avatarPresignInput
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &input); err != nil {
			utils.Fail(w, http.StatusBadRequest, "Invalid input")
			return
		}
	}
	if input.ContentType != "" && !strings.HasPrefix(input.ContentType, "image/") {
		utils.Fail(w, http.StatusBadRequest, "Profile images must be images")
		return
	}

	ctx := r.Context()
	key := repositories.AvatarKey(middleware.UserID(ctx))
	url, err := h.Objects.PresignPut(ctx, key, input.ContentType, avatarUploadExpiry)
	if err != nil {
		h.Log.Error().Err(err).Msg("presign avatar upload")
		utils.Fail(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	utils.OK(w, http.StatusOK, "Presigned upload URL generated successfully", map[string]any{
		"url":       url,
		"key":       key,
		"expiresIn": avatarUploadExpiry.String(),
	})
}

// POST /api/v1/users/me/avatar/complete
// CompleteAvatar godoc
// @Summary Use an uploaded object as the profile image
// @Tags Users
// @Accept json
// @Produce json
// @Param body body avatarCompleteInput true "Object key from presign"
// @Success 200 {object} utils.Payload "Profile image updated"
// @Failure 400 {object} utils.Payload "Upload not found"
// @Failure 503 {object} utils.Payload "Object storage is not configured"
// @Router /api/v1/users/me/avatar/complete [post]
func (h *Handler) CompleteAvatar(w http.ResponseWriter, r *http.Request) {
	if h.Objects == nil {
		utils.Fail(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}
	var input avatarCompleteInput
	if err := decodeJSON(r, &input); err != nil || input.Key == "" {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx := r.Context()
	userID := middleware.UserID(ctx)
	if !strings.HasPrefix(input.Key, repositories.AvatarPrefix(userID)) {
		utils.Fail(w, http.StatusForbidden, "Key does not belong to this user")
		return
	}

	exists, err := h.Objects.Exists(ctx, input.Key)
	if err != nil {
		h.Log.Error().Err(err).Msg("verify avatar upload")
		utils.Fail(w, http.StatusInternalServerError, "Failed to verify upload")
		return
	}
	if !exists {
		utils.Fail(w, http.StatusBadRequest, "Upload not found")
		return
	}

	user, err := h.Store.Users.FindByID(ctx, userID)
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	user.ImageURL = h.Objects.PublicURL(input.Key)
	if err := h.Store.Users.Update(ctx, user); err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Profile image updated", user)
}
