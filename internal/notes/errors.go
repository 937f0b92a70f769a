package notes

import (
	"context"
	"errors"

	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
)

var (
	ErrLectureNotFound     = errors.New("lecture not found in course curriculum")
	ErrSummarizationFailed = errors.New("summarization failed")
)

// Describe maps a pipeline error to a message that is safe to show users.
// Details stay in the logs.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLectureNotFound):
		return "lecture not found in course curriculum"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}
	switch udemy.CodeOf(err) {
	case udemy.ErrorAuthRejected:
		return "invalid session, please re-enter"
	case udemy.ErrorUpstreamUnavailable:
		return "course platform unavailable, please retry"
	case udemy.ErrorMalformedResponse:
		return "unexpected response from course platform"
	}
	return "failed to process lecture"
}
