package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rohits-web03/warbler/internal/api/middleware"
	"github.com/rohits-web03/warbler/internal/metrics"
	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/utils"
)

type messageInput struct {
	Text string `json:"text"`
}

// POST /api/v1/messages
// CreateMessage godoc
// @Summary Post a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param body body messageInput true "Message text, 1 to 140 characters"
// @Success 201 {object} utils.Payload "Message posted"
// @Failure 400 {object} utils.Payload "Invalid message"
// @Router /api/v1/messages [post]
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var input messageInput
	if err := decodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	text := strings.TrimSpace(input.Text)
	if text == "" || utf8.RuneCountInString(text) > models.MaxMessageLength {
		utils.Fail(w, http.StatusBadRequest, "Messages must be between 1 and 140 characters")
		return
	}

	ctx := r.Context()
	msg := &models.Message{Text: text, UserID: middleware.UserID(ctx)}
	if err := h.Store.Messages.Create(ctx, msg); err != nil {
		h.storageError(w, err, "User not found", "Invalid message")
		return
	}

	metrics.MessagesPosted.Inc()
	utils.OK(w, http.StatusCreated, "Message posted", msg)
}

// GET /api/v1/messages/{id}
// GetMessage godoc
// @Summary Show a message
// @Tags Messages
// @Produce json
// @Param id path int true "Message id"
// @Success 200 {object} utils.Payload "Message retrieved successfully"
// @Failure 404 {object} utils.Payload "Message not found"
// @Router /api/v1/messages/{id} [get]
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	msg, err := h.Store.Messages.FindByID(r.Context(), id)
	if err != nil {
		h.storageError(w, err, "Message not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Message retrieved successfully", msg)
}

// DELETE /api/v1/messages/{id}
// DeleteMessage godoc
// @Summary Delete one of the caller's messages
// @Tags Messages
// @Produce json
// @Param id path int true "Message id"
// @Success 200 {object} utils.Payload "Message deleted"
// @Failure 404 {object} utils.Payload "Message not found"
// @Router /api/v1/messages/{id} [delete]
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	ctx := r.Context()
	// Someone else's message reads as missing.
	if err := h.Store.Messages.Delete(ctx, id, middleware.UserID(ctx)); err != nil {
		h.storageError(w, err, "Message not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Message deleted", nil)
}

// GET /api/v1/users/{id}/messages
// ListUserMessages godoc
// @Summary List a user's messages, newest first
// @Tags Messages
// @Produce json
// @Param id path int true "User id"
// @Param limit query int false "At most 100"
// @Success 200 {object} utils.Payload "Messages retrieved successfully"
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/users/{id}/messages [get]
func (h *Handler) ListUserMessages(w http.ResponseWriter, r *http.Request) {
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
	messages, err := h.Store.Messages.MessagesOf(ctx, id, queryLimit(r))
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Messages retrieved successfully", messages)
}

// GET /api/v1/timeline
// Timeline godoc
// @Summary Messages from the caller and everyone they follow
// @Tags Messages
// @Produce json
// @Param limit query int false "At most 100"
// @Success 200 {object} utils.Payload "Timeline retrieved successfully"
// @Router /api/v1/timeline [get]
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messages, err := h.Store.Messages.Timeline(ctx, middleware.UserID(ctx), queryLimit(r))
	if err != nil {
		h.storageError(w, err, "User not found", "Conflict")
		return
	}
	utils.OK(w, http.StatusOK, "Timeline retrieved successfully", messages)
}
