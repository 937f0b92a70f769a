package notes

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/facebookgo/clock"

	"github.com/yungbote/coursenotes-backend/internal/notes/archive"
	"github.com/yungbote/coursenotes-backend/internal/notes/store"
	"github.com/yungbote/coursenotes-backend/internal/observability"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

const (
	ProtocolStream = "stream"
	ProtocolDirect = "direct"
)

type Request struct {
	CourseID   int64
	LectureIDs []int64
	Credential string
}

// Bundle is everything needed to write one run's archive.
type Bundle struct {
	CourseTitle string
	RunID       string
	Chapters    []types.Chapter
	Notes       []types.LectureNote
}

func (b *Bundle) RootName() string { return archive.RootName(b.CourseTitle, b.RunID) }

func (b *Bundle) FileName() string { return b.RootName() + ".zip" }

func (b *Bundle) Write(w io.Writer) error {
	return archive.Write(w, b.CourseTitle, b.RunID, b.Chapters, b.Notes)
}

// Pipeline exposes the two run protocols over the shared emitter and
// archive: Stream + Download rendezvous through the note store, Archive
// produces the bundle in one call.
type Pipeline struct {
	log     *logger.Logger
	emitter *Emitter
	fetcher *LectureFetcher
	store   store.Store
	clock   clock.Clock
}

func NewPipeline(log *logger.Logger, emitter *Emitter, fetcher *LectureFetcher, st store.Store, clk clock.Clock) *Pipeline {
	if clk == nil {
		clk = clock.New()
	}
	return &Pipeline{
		log:     log.With("service", "NotesPipeline"),
		emitter: emitter,
		fetcher: fetcher,
		store:   st,
		clock:   clk,
	}
}

func (p *Pipeline) newRunID() string {
	return strconv.FormatInt(p.clock.Now().UnixMilli(), 10)
}

// Stream runs the lectures and forwards progress. Before the completed event
// is forwarded the notes are stored under store.Key(courseID, runID), so a
// Download issued after seeing the event always finds them until the TTL ends.
func (p *Pipeline) Stream(ctx context.Context, req Request) <-chan types.ProgressEvent {
	run := Run{ID: p.newRunID(), CourseID: req.CourseID, LectureIDs: req.LectureIDs, Credential: req.Credential}
	events, res := p.emitter.Run(ctx, run)
	out := make(chan types.ProgressEvent)
	go func() {
		defer close(out)
		status := "canceled"
		defer func() { observeRun(ProtocolStream, status) }()

		for ev := range events {
			switch {
			case ev.Phase == types.PhaseCompleted:
				if err := p.save(ctx, run, res); err != nil {
					p.log.Error("storing notes failed", "run_id", run.ID, "course_id", run.CourseID, "error", err)
					status = "error"
					ev = types.ProgressEvent{
						PercentComplete: 100,
						Phase:           types.PhaseError,
						Message:         "Failed to store notes for download",
						ErrorDetail:     "notes could not be saved, please retry",
						RunID:           run.ID,
					}
				} else {
					status = "completed"
				}
			case ev.Terminal():
				status = "error"
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (p *Pipeline) save(ctx context.Context, run Run, res *Result) error {
	key := store.Key(run.CourseID, run.ID)
	return p.store.Put(ctx, key, types.StoredNoteSet{
		Key:         key,
		CourseID:    run.CourseID,
		RunID:       run.ID,
		CourseTitle: res.CourseTitle,
		Chapters:    res.Chapters,
		Notes:       res.Notes,
		CreatedAt:   p.clock.Now(),
	})
}

// Download loads a stored run. A miss, or a run that produced no notes, is
// store.ErrNotFoundOrExpired.
func (p *Pipeline) Download(ctx context.Context, courseID int64, runID string) (*Bundle, error) {
	set, err := p.store.Get(ctx, store.Key(courseID, runID))
	if err != nil {
		return nil, err
	}
	if len(set.Notes) == 0 {
		return nil, store.ErrNotFoundOrExpired
	}
	return &Bundle{
		CourseTitle: set.CourseTitle,
		RunID:       set.RunID,
		Chapters:    set.Chapters,
		Notes:       set.Notes,
	}, nil
}

// Archive runs the lectures and returns the bundle directly. onEvent, when
// non-nil, sees every progress event in order. Only failures before the first
// lecture and cancellation are returned as errors.
func (p *Pipeline) Archive(ctx context.Context, req Request, onEvent func(types.ProgressEvent)) (*Bundle, error) {
	run := Run{ID: p.newRunID(), CourseID: req.CourseID, LectureIDs: req.LectureIDs, Credential: req.Credential}
	events, res := p.emitter.Run(ctx, run)
	for ev := range events {
		p.log.Debug("archive progress",
			"run_id", run.ID,
			"progress", ev.PercentComplete,
			"status", string(ev.Phase),
			"lecture", ev.Lecture,
		)
		if onEvent != nil {
			onEvent(ev)
		}
	}
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			observeRun(ProtocolDirect, "canceled")
		} else {
			observeRun(ProtocolDirect, "error")
		}
		return nil, res.Err
	}
	observeRun(ProtocolDirect, "completed")
	return &Bundle{
		CourseTitle: res.CourseTitle,
		RunID:       run.ID,
		Chapters:    res.Chapters,
		Notes:       res.Notes,
	}, nil
}

// Lecture resolves a single lecture note, re-fetching the curriculum.
func (p *Pipeline) Lecture(ctx context.Context, courseID, lectureID int64, credential string) (types.LectureNote, error) {
	return p.fetcher.Resolve(ctx, courseID, lectureID, credential)
}

func observeRun(protocol, status string) {
	if m := observability.Current(); m != nil {
		m.IncRun(protocol, status)
	}
}
