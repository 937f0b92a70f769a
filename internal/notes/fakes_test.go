package notes

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

type fakeUdemy struct {
	mu sync.Mutex

	course      types.Course
	courseErr   error
	items       []types.CurriculumItem
	itemsErr    error
	captions    map[int64][]types.Caption
	captionsErr map[int64]error
	bodies      map[string]string
	bodyErr     map[string]error

	curriculumCalls int
	captionCalls    []int64
}

func (f *fakeUdemy) ListCourses(ctx context.Context, credential string, q udemy.CourseQuery) (types.Page[types.Course], error) {
	return types.Page[types.Course]{Count: 1, Results: []types.Course{f.course}}, nil
}

func (f *fakeUdemy) GetCourse(ctx context.Context, courseID int64, credential string) (types.Course, error) {
	if f.courseErr != nil {
		return types.Course{}, f.courseErr
	}
	return f.course, nil
}

func (f *fakeUdemy) CurriculumItems(ctx context.Context, courseID int64, credential string) ([]types.CurriculumItem, error) {
	f.mu.Lock()
	f.curriculumCalls++
	f.mu.Unlock()
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items, nil
}

func (f *fakeUdemy) LectureCaptions(ctx context.Context, courseID, lectureID int64, credential string) ([]types.Caption, error) {
	f.mu.Lock()
	f.captionCalls = append(f.captionCalls, lectureID)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.captionsErr[lectureID]; err != nil {
		return nil, err
	}
	return f.captions[lectureID], nil
}

func (f *fakeUdemy) FetchCaption(ctx context.Context, captionURL string) (string, error) {
	if err := f.bodyErr[captionURL]; err != nil {
		return "", err
	}
	body, ok := f.bodies[captionURL]
	if !ok {
		return "", errors.New("unexpected caption url " + captionURL)
	}
	return body, nil
}

type summarizerFunc func(ctx context.Context, transcript, title string) (string, error)

func (fn summarizerFunc) Summarize(ctx context.Context, transcript, title string) (string, error) {
	return fn(ctx, transcript, title)
}

func echoSummarizer() Summarizer {
	return summarizerFunc(func(_ context.Context, transcript, title string) (string, error) {
		return "## " + title + "\n\n" + transcript, nil
	})
}

func vttFor(text string) string {
	return "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n" + text + "\n"
}

func englishCaption(url string) []types.Caption {
	return []types.Caption{
		{ID: 1, LocaleID: "es_ES", Status: 1, URL: url + "?es"},
		{ID: 2, LocaleID: "en_US", Status: 1, URL: url},
	}
}

// courseFixture is the Intro/Basics course: Welcome(1), Vars(2), Loops(3).
func courseFixture() *fakeUdemy {
	return &fakeUdemy{
		course: types.Course{ID: 7, Title: "Course"},
		items: []types.CurriculumItem{
			{Class: "chapter", ID: 100, Title: "Intro", ObjectIndex: 1},
			{Class: "lecture", ID: 1, Title: "Welcome", ObjectIndex: 1},
			{Class: "chapter", ID: 200, Title: "Basics", ObjectIndex: 2},
			{Class: "lecture", ID: 2, Title: "Vars", ObjectIndex: 1},
			{Class: "quiz", ID: 9, Title: "Check", ObjectIndex: 2},
			{Class: "lecture", ID: 3, Title: "Loops", ObjectIndex: 2},
		},
		captions: map[int64][]types.Caption{
			1: englishCaption("https://cdn.test/welcome.vtt"),
			2: englishCaption("https://cdn.test/vars.vtt"),
			3: englishCaption("https://cdn.test/loops.vtt"),
		},
		captionsErr: map[int64]error{},
		bodies: map[string]string{
			"https://cdn.test/welcome.vtt": vttFor("Welcome everyone."),
			"https://cdn.test/vars.vtt":    vttFor("Variables hold values."),
			"https://cdn.test/loops.vtt":   vttFor("Loops repeat work."),
		},
		bodyErr: map[string]error{},
	}
}
