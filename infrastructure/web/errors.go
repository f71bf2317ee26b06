package web

import (
	"context"
	"errors"
	"net/http"
	sharederrors "share-lab/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var statusBySentinel = []struct {
	err    error
	status int
	code   string
}{
	{sharederrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid-credentials"},
	{sharederrors.ErrInvalidToken, http.StatusUnauthorized, "invalid-token"},
	{sharederrors.ErrUnknownParticipant, http.StatusNotFound, "unknown-participant"},
	{sharederrors.ErrAlreadyPlaced, http.StatusConflict, "already-placed"},
	{sharederrors.ErrBoardFull, http.StatusConflict, "board-full"},
	{sharederrors.ErrSlotOccupied, http.StatusConflict, "slot-occupied"},
	{sharederrors.ErrLayoutTooSmall, http.StatusConflict, "layout-too-small"},
	{sharederrors.ErrRejected, http.StatusConflict, "rejected"},
	{sharederrors.ErrInvalidLayout, http.StatusBadRequest, "invalid-layout"},
	{sharederrors.ErrInvalidSlot, http.StatusBadRequest, "invalid-slot"},
	{sharederrors.ErrUnsupportedAudio, http.StatusUnsupportedMediaType, "unsupported-audio"},
	{sharederrors.ErrNoTranscript, http.StatusUnprocessableEntity, "no-transcript"},
	{sharederrors.ErrSpeechAPI, http.StatusBadGateway, "speech-api"},
	{sharederrors.ErrSpeechDisabled, http.StatusServiceUnavailable, "speech-disabled"},
	{sharederrors.ErrQueueFull, http.StatusServiceUnavailable, "queue-full"},
	{sharederrors.ErrCommandTimeout, http.StatusServiceUnavailable, "command-timeout"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
}

func respondError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: validationErrors.Error(), Code: "invalid-request"})
		return
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			c.AbortWithStatusJSON(s.status, ErrorResponse{Message: err.Error(), Code: s.code})
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: "invalid-request"})
}
