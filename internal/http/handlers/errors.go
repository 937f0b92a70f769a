package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/coursenotes-backend/internal/notes"
	"github.com/yungbote/coursenotes-backend/internal/notes/store"
	"github.com/yungbote/coursenotes-backend/internal/platform/apierr"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
)

const (
	msgInvalidSession   = "invalid session, please re-enter"
	msgUpstreamDown     = "course platform unavailable, please retry"
	msgUpstreamMangled  = "unexpected response from course platform"
	msgNotesNotFound    = "Notes not found or expired"
	msgMissingParams    = "Missing required parameters"
	msgLectureNotFound  = "lecture not found in course curriculum"
	msgInternal         = "internal server error"
	msgRequestCancelled = "request canceled"
)

// classify maps service errors onto the HTTP taxonomy. Internal details stay
// in Err and are only logged.
func classify(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	switch {
	case errors.Is(err, store.ErrNotFoundOrExpired):
		return apierr.WithMessage(http.StatusNotFound, "notes_not_found", msgNotesNotFound, err)
	case errors.Is(err, notes.ErrLectureNotFound):
		return apierr.WithMessage(http.StatusNotFound, "lecture_not_found", msgLectureNotFound, err)
	case errors.Is(err, context.Canceled):
		return apierr.WithMessage(499, "canceled", msgRequestCancelled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.WithMessage(http.StatusGatewayTimeout, "timeout", msgUpstreamDown, err)
	}
	switch udemy.CodeOf(err) {
	case udemy.ErrorAuthRejected:
		return apierr.WithMessage(http.StatusUnauthorized, string(udemy.ErrorAuthRejected), msgInvalidSession, err)
	case udemy.ErrorUpstreamUnavailable:
		return apierr.WithMessage(http.StatusBadGateway, string(udemy.ErrorUpstreamUnavailable), msgUpstreamDown, err)
	case udemy.ErrorMalformedResponse:
		return apierr.WithMessage(http.StatusBadGateway, string(udemy.ErrorMalformedResponse), msgUpstreamMangled, err)
	}
	return apierr.WithMessage(http.StatusInternalServerError, "internal", msgInternal, err)
}

func badRequest(message string) *apierr.Error {
	return apierr.WithMessage(http.StatusBadRequest, "bad_request", message, nil)
}
