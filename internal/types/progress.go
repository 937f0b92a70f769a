package types

type ProgressPhase string

const (
	PhaseProcessing ProgressPhase = "processing"
	PhaseCompleted  ProgressPhase = "completed"
	PhaseError      ProgressPhase = "error"
)

// ProgressEvent is one frame of a run's progress stream.
type ProgressEvent struct {
	PercentComplete int           `json:"progress"`
	Phase           ProgressPhase `json:"status"`
	Message         string        `json:"message"`
	Chapter         string        `json:"chapter,omitempty"`
	Lecture         string        `json:"lecture,omitempty"`
	ErrorDetail     string        `json:"error,omitempty"`
	RunID           string        `json:"runId,omitempty"`
}

// Terminal reports whether ev closes the stream. Per-lecture error events always
// name their lecture and are not terminal.
func (ev ProgressEvent) Terminal() bool {
	switch ev.Phase {
	case PhaseCompleted:
		return true
	case PhaseError:
		return ev.Lecture == ""
	default:
		return false
	}
}
