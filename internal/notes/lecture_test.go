package notes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

func newFetcher(uc *fakeUdemy, s Summarizer) *LectureFetcher {
	log := logger.Nop()
	return NewLectureFetcher(log, uc, NewCurriculumResolver(log, uc), s)
}

func TestResolveBuildsSummarizedNote(t *testing.T) {
	uc := courseFixture()
	var gotTranscript, gotTitle string
	f := newFetcher(uc, summarizerFunc(func(_ context.Context, transcript, title string) (string, error) {
		gotTranscript, gotTitle = transcript, title
		return "## Vars\n\nnotes", nil
	}))

	note, err := f.Resolve(context.Background(), 7, 2, "cookie")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if gotTranscript != "Variables hold values." || gotTitle != "Vars" {
		t.Fatalf("summarizer input: transcript=%q title=%q", gotTranscript, gotTitle)
	}
	if note.ChapterTitle != "Basics" || note.ChapterIndex != 2 || note.LectureTitle != "Vars" || note.ObjectIndex != 1 {
		t.Fatalf("note placement: %+v", note)
	}
	if note.Content != "## Vars\n\nnotes" || note.Placeholder {
		t.Fatalf("note content: %+v", note)
	}
	if uc.curriculumCalls != 1 {
		t.Fatalf("curriculum calls: want=1 got=%d", uc.curriculumCalls)
	}
}

func TestResolveInPlaceholders(t *testing.T) {
	cases := []struct {
		name  string
		setup func(uc *fakeUdemy)
		sum   Summarizer
	}{
		{
			name:  "no english caption",
			setup: func(uc *fakeUdemy) { uc.captions[1] = []types.Caption{{LocaleID: "fr_FR", Status: 1, URL: "x"}} },
			sum:   echoSummarizer(),
		},
		{
			name:  "caption not ready",
			setup: func(uc *fakeUdemy) { uc.captions[1] = []types.Caption{{LocaleID: "en_US", Status: 0, URL: "x"}} },
			sum:   echoSummarizer(),
		},
		{
			name:  "empty transcript",
			setup: func(uc *fakeUdemy) { uc.bodies["https://cdn.test/welcome.vtt"] = "WEBVTT\n\n00:00.000 --> 00:01.000\n" },
			sum: summarizerFunc(func(context.Context, string, string) (string, error) {
				return "", errors.New("must not be called")
			}),
		},
		{
			name:  "summarizer fails",
			setup: func(*fakeUdemy) {},
			sum: summarizerFunc(func(context.Context, string, string) (string, error) {
				return "", errors.New("llm down")
			}),
		},
		{
			name:  "summarizer returns blank",
			setup: func(*fakeUdemy) {},
			sum: summarizerFunc(func(context.Context, string, string) (string, error) {
				return "  \n", nil
			}),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := courseFixture()
			tc.setup(uc)
			f := newFetcher(uc, tc.sum)
			chapters := BuildChapters(uc.items)
			note, err := f.ResolveIn(context.Background(), 7, 1, "cookie", chapters)
			if err != nil {
				t.Fatalf("ResolveIn: %v", err)
			}
			want := "## Welcome\n\nNo captions available for this lecture."
			if note.Content != want || !note.Placeholder {
				t.Fatalf("content: want=%q got=%q placeholder=%v", want, note.Content, note.Placeholder)
			}
		})
	}
}

func TestResolveInLectureNotFound(t *testing.T) {
	uc := courseFixture()
	f := newFetcher(uc, echoSummarizer())
	_, err := f.ResolveIn(context.Background(), 7, 999, "cookie", BuildChapters(uc.items))
	if !errors.Is(err, ErrLectureNotFound) {
		t.Fatalf("want ErrLectureNotFound, got %v", err)
	}
	if len(uc.captionCalls) != 0 {
		t.Fatalf("captions must not be fetched for unknown lecture")
	}
}

func TestResolveInTransportErrors(t *testing.T) {
	uc := courseFixture()
	uc.bodyErr["https://cdn.test/vars.vtt"] = &udemy.Error{Code: udemy.ErrorUpstreamUnavailable, Op: "caption"}
	uc.captionsErr[3] = &udemy.Error{Code: udemy.ErrorAuthRejected, Op: "lecture_captions", StatusCode: 403}
	f := newFetcher(uc, echoSummarizer())
	chapters := BuildChapters(uc.items)

	if _, err := f.ResolveIn(context.Background(), 7, 2, "cookie", chapters); udemy.CodeOf(err) != udemy.ErrorUpstreamUnavailable {
		t.Fatalf("caption body: want upstream_unavailable, got %v", err)
	}
	if _, err := f.ResolveIn(context.Background(), 7, 3, "cookie", chapters); !udemy.IsAuthRejected(err) {
		t.Fatalf("caption metadata: want auth_rejected, got %v", err)
	}
}

func TestPassthroughSummarizer(t *testing.T) {
	got, err := NewPassthroughSummarizer().Summarize(context.Background(), "text\n", "Title")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.HasPrefix(got, "## Title\n\n") || !strings.HasSuffix(got, "text") {
		t.Fatalf("unexpected: %q", got)
	}
}
