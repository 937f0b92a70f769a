package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

func newEmitter(uc *fakeUdemy, s Summarizer) *Emitter {
	log := logger.Nop()
	curriculum := NewCurriculumResolver(log, uc)
	return NewEmitter(log, uc, curriculum, NewLectureFetcher(log, uc, curriculum, s))
}

func collect(ch <-chan types.ProgressEvent) []types.ProgressEvent {
	var out []types.ProgressEvent
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func TestEmitterOrderAndPercent(t *testing.T) {
	uc := courseFixture()
	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{
		ID: "1", CourseID: 7, LectureIDs: []int64{3, 1, 2}, Credential: "cookie",
	})
	got := collect(events)
	if len(got) != 4 {
		t.Fatalf("events: want=4 got=%d (%+v)", len(got), got)
	}
	wantLectures := []string{"Loops", "Welcome", "Vars"}
	wantPct := []int{33, 67, 100}
	for i := 0; i < 3; i++ {
		if got[i].Phase != types.PhaseProcessing || got[i].Lecture != wantLectures[i] || got[i].PercentComplete != wantPct[i] {
			t.Fatalf("event %d: %+v", i, got[i])
		}
	}
	last := got[3]
	if last.Phase != types.PhaseCompleted || last.PercentComplete != 100 || last.RunID != "1" || !last.Terminal() {
		t.Fatalf("terminal: %+v", last)
	}
	if res.CourseTitle != "Course" || len(res.Notes) != 3 || res.Err != nil {
		t.Fatalf("result: %+v", res)
	}
	if uc.curriculumCalls != 1 {
		t.Fatalf("curriculum fetched %d times, want once per run", uc.curriculumCalls)
	}
	for i := 1; i < len(got); i++ {
		if got[i].PercentComplete < got[i-1].PercentComplete {
			t.Fatalf("percent decreased at %d: %+v", i, got)
		}
	}
}

func TestEmitterPartialFailure(t *testing.T) {
	uc := courseFixture()
	uc.items = append(uc.items,
		types.CurriculumItem{Class: "lecture", ID: 4, Title: "Funcs", ObjectIndex: 3},
		types.CurriculumItem{Class: "lecture", ID: 5, Title: "Structs", ObjectIndex: 4},
	)
	uc.captions[4] = nil
	uc.captions[5] = englishCaption("https://cdn.test/structs.vtt")
	uc.bodies["https://cdn.test/structs.vtt"] = vttFor("Structs group fields.")
	uc.bodyErr["https://cdn.test/vars.vtt"] = &udemy.Error{Code: udemy.ErrorUpstreamUnavailable, Op: "caption"}

	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{
		ID: "9", CourseID: 7, LectureIDs: []int64{1, 2, 3, 4, 5}, Credential: "cookie",
	})
	got := collect(events)
	if len(got) != 6 {
		t.Fatalf("events: want=6 got=%d (%+v)", len(got), got)
	}
	if got[1].Phase != types.PhaseError || got[1].Lecture != "Vars" || got[1].ErrorDetail == "" || got[1].Terminal() {
		t.Fatalf("failed lecture event: %+v", got[1])
	}
	if got[5].Phase != types.PhaseCompleted {
		t.Fatalf("terminal: want completed, got %+v", got[5])
	}
	if len(res.Notes) != 5 || res.Failed != 1 {
		t.Fatalf("result: notes=%d failed=%d", len(res.Notes), res.Failed)
	}
	if !res.Notes[1].Placeholder || res.Notes[1].LectureTitle != "Vars" {
		t.Fatalf("failed lecture note: %+v", res.Notes[1])
	}
}

func TestEmitterUnknownLecture(t *testing.T) {
	uc := courseFixture()
	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{
		ID: "1", CourseID: 7, LectureIDs: []int64{1, 404}, Credential: "cookie",
	})
	got := collect(events)
	if len(got) != 3 {
		t.Fatalf("events: want=3 got=%d", len(got))
	}
	if got[1].Phase != types.PhaseError || got[1].Lecture != "404" || got[1].Terminal() {
		t.Fatalf("unknown lecture event: %+v", got[1])
	}
	if len(res.Notes) != 1 {
		t.Fatalf("unknown lecture must not produce a note: %+v", res.Notes)
	}
}

func TestEmitterCatastrophicFailure(t *testing.T) {
	uc := courseFixture()
	uc.courseErr = &udemy.Error{Code: udemy.ErrorAuthRejected, Op: "course", StatusCode: 403}
	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{
		ID: "1", CourseID: 7, LectureIDs: []int64{1, 2}, Credential: "bad",
	})
	got := collect(events)
	if len(got) != 1 {
		t.Fatalf("events: want=1 got=%d", len(got))
	}
	ev := got[0]
	if ev.Phase != types.PhaseError || ev.PercentComplete != 0 || !ev.Terminal() {
		t.Fatalf("terminal error: %+v", ev)
	}
	if ev.ErrorDetail != "invalid session, please re-enter" {
		t.Fatalf("error detail: %q", ev.ErrorDetail)
	}
	if !udemy.IsAuthRejected(res.Err) {
		t.Fatalf("result err: %v", res.Err)
	}
	if len(uc.captionCalls) != 0 {
		t.Fatalf("no lecture should be attempted")
	}
}

func TestEmitterStopsWhenConsumerCancels(t *testing.T) {
	uc := courseFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, res := newEmitter(uc, echoSummarizer()).Run(ctx, Run{
		ID: "1", CourseID: 7, LectureIDs: []int64{1, 2, 3}, Credential: "cookie",
	})
	first := <-events
	if first.Phase != types.PhaseProcessing {
		t.Fatalf("first event: %+v", first)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		for range events {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("emitter did not stop after cancellation")
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("result err: want canceled, got %v", res.Err)
	}
}

func TestEmitterDefaultsCourseTitle(t *testing.T) {
	uc := courseFixture()
	uc.course.Title = "  "
	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{ID: "1", CourseID: 7, LectureIDs: []int64{1}})
	collect(events)
	if res.CourseTitle != DefaultCourseTitle {
		t.Fatalf("course title: want=%q got=%q", DefaultCourseTitle, res.CourseTitle)
	}
}

func TestEmitterSkipsRepeatedLectures(t *testing.T) {
	uc := courseFixture()
	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{
		ID: "1", CourseID: 7, LectureIDs: []int64{2, 1, 2}, Credential: "cookie",
	})
	got := collect(events)
	if len(got) != 3 {
		t.Fatalf("events: want=3 got=%d (%+v)", len(got), got)
	}
	if got[0].Lecture != "Vars" || got[0].PercentComplete != 50 || got[1].Lecture != "Welcome" || got[1].PercentComplete != 100 {
		t.Fatalf("events: %+v", got)
	}
	if len(res.Notes) != 2 {
		t.Fatalf("notes: want=2 got=%d", len(res.Notes))
	}
	if len(uc.captionCalls) != 2 {
		t.Fatalf("caption calls: want=2 got=%v", uc.captionCalls)
	}
}

func TestEmitterUntitledLectureFailureIsNotTerminal(t *testing.T) {
	uc := courseFixture()
	uc.items = append(uc.items, types.CurriculumItem{Class: "lecture", ID: 4, Title: "", ObjectIndex: 3})
	uc.captionsErr[4] = &udemy.Error{Code: udemy.ErrorUpstreamUnavailable, Op: "captions", StatusCode: 503}

	events, res := newEmitter(uc, echoSummarizer()).Run(context.Background(), Run{
		ID: "1", CourseID: 7, LectureIDs: []int64{4, 1}, Credential: "cookie",
	})
	got := collect(events)
	if len(got) != 3 {
		t.Fatalf("events: want=3 got=%d (%+v)", len(got), got)
	}
	if got[0].Phase != types.PhaseError || got[0].Lecture != "4" || got[0].Chapter != "Basics" || got[0].Terminal() {
		t.Fatalf("untitled failure event: %+v", got[0])
	}
	if got[2].Phase != types.PhaseCompleted {
		t.Fatalf("terminal: want completed, got %+v", got[2])
	}
	if res.Failed != 1 || len(res.Notes) != 2 {
		t.Fatalf("result: failed=%d notes=%d", res.Failed, len(res.Notes))
	}
}
