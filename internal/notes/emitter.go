package notes

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/coursenotes-backend/internal/observability"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

const DefaultCourseTitle = "Udemy Course"

// Run is one pipeline invocation over a selection of lectures.
type Run struct {
	ID         string
	CourseID   int64
	LectureIDs []int64
	Credential string
}

// Result is filled by the emitter. It is safe to read once the terminal event
// has been received or the event channel has been closed.
type Result struct {
	CourseTitle string
	Chapters    []types.Chapter
	Notes       []types.LectureNote
	Failed      int
	// Err is set when the run failed before any lecture or was canceled.
	Err error
}

type Emitter struct {
	log        *logger.Logger
	udemy      udemy.Client
	curriculum *CurriculumResolver
	fetcher    *LectureFetcher
}

func NewEmitter(log *logger.Logger, uc udemy.Client, curriculum *CurriculumResolver, fetcher *LectureFetcher) *Emitter {
	return &Emitter{
		log:        log.With("service", "ProgressEmitter"),
		udemy:      uc,
		curriculum: curriculum,
		fetcher:    fetcher,
	}
}

// Run processes the run's lectures sequentially in input order and yields one
// event per lecture followed by exactly one terminal event. The channel is
// closed when the run ends or ctx is canceled; the producer never blocks on a
// consumer that has gone away.
func (e *Emitter) Run(ctx context.Context, run Run) (<-chan types.ProgressEvent, *Result) {
	out := make(chan types.ProgressEvent)
	res := &Result{}
	go func() {
		defer close(out)
		e.run(ctx, run, res, out)
	}()
	return out, res
}

func (e *Emitter) run(ctx context.Context, run Run, res *Result, out chan<- types.ProgressEvent) {
	ctx, span := otel.Tracer("notes").Start(ctx, "notes.run")
	defer span.End()
	run.LectureIDs = uniqueLectureIDs(run.LectureIDs)
	span.SetAttributes(
		attribute.String("run.id", run.ID),
		attribute.Int64("course.id", run.CourseID),
		attribute.Int("lectures.total", len(run.LectureIDs)),
	)
	log := e.log.With("run_id", run.ID, "course_id", run.CourseID)

	send := func(ev types.ProgressEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		res.Err = err
		span.SetStatus(codes.Error, err.Error())
		if ctx.Err() != nil {
			return
		}
		log.Error("run failed before processing lectures", "error", err)
		send(types.ProgressEvent{
			PercentComplete: 0,
			Phase:           types.PhaseError,
			Message:         "Failed to process lectures",
			ErrorDetail:     Describe(err),
			RunID:           run.ID,
		})
	}

	course, err := e.udemy.GetCourse(ctx, run.CourseID, run.Credential)
	if err != nil {
		fail(fmt.Errorf("fetch course: %w", err))
		return
	}
	res.CourseTitle = strings.TrimSpace(course.Title)
	if res.CourseTitle == "" {
		res.CourseTitle = DefaultCourseTitle
	}
	chapters, err := e.curriculum.Resolve(ctx, run.CourseID, run.Credential)
	if err != nil {
		fail(fmt.Errorf("resolve curriculum: %w", err))
		return
	}
	res.Chapters = chapters

	total := len(run.LectureIDs)
	for i, lectureID := range run.LectureIDs {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return
		}
		pct := percent(i+1, total)
		note, err := e.fetcher.ResolveIn(ctx, run.CourseID, lectureID, run.Credential, chapters)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				res.Err = ctxErr
				return
			}
			res.Failed++
			ev := types.ProgressEvent{
				PercentComplete: pct,
				Phase:           types.PhaseError,
				Message:         fmt.Sprintf("Failed to process lecture %d of %d", i+1, total),
				Lecture:         strconv.FormatInt(lectureID, 10),
				ErrorDetail:     Describe(err),
			}
			if ch, lec, ok := types.FindLecture(chapters, lectureID); ok {
				placeholder := PlaceholderNote(ch, lec)
				res.Notes = append(res.Notes, placeholder)
				ev.Chapter = ch.Title
				if strings.TrimSpace(lec.Title) != "" {
					ev.Lecture = lec.Title
				}
			}
			log.Warn("lecture failed", "lecture_id", lectureID, "error", err)
			observeLecture("error")
			if !send(ev) {
				res.Err = ctx.Err()
				return
			}
			continue
		}

		res.Notes = append(res.Notes, note)
		if note.Placeholder {
			observeLecture("placeholder")
		} else {
			observeLecture("ok")
		}
		if !send(types.ProgressEvent{
			PercentComplete: pct,
			Phase:           types.PhaseProcessing,
			Message:         fmt.Sprintf("Processing lecture %d of %d", i+1, total),
			Chapter:         note.ChapterTitle,
			Lecture:         note.LectureTitle,
		}) {
			res.Err = ctx.Err()
			return
		}
	}

	span.SetAttributes(attribute.Int("lectures.failed", res.Failed))
	log.Info("run processed", "lectures", total, "failed", res.Failed)
	if !send(Completed(run.ID)) {
		res.Err = ctx.Err()
	}
}

// Completed builds the terminal success event for a run.
func Completed(runID string) types.ProgressEvent {
	return types.ProgressEvent{
		PercentComplete: 100,
		Phase:           types.PhaseCompleted,
		Message:         "All lectures have been processed successfully!",
		RunID:           runID,
	}
}

// uniqueLectureIDs drops repeated ids, keeping first-seen order.
func uniqueLectureIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func observeLecture(status string) {
	if m := observability.Current(); m != nil {
		m.IncLecture(status)
	}
}
