package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/coursenotes-backend/internal/notes/vtt"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

type LectureFetcher struct {
	log        *logger.Logger
	udemy      udemy.Client
	curriculum *CurriculumResolver
	summarizer Summarizer
}

func NewLectureFetcher(log *logger.Logger, uc udemy.Client, curriculum *CurriculumResolver, summarizer Summarizer) *LectureFetcher {
	return &LectureFetcher{
		log:        log.With("service", "LectureFetcher"),
		udemy:      uc,
		curriculum: curriculum,
		summarizer: summarizer,
	}
}

// Resolve re-fetches the curriculum to place the lecture, then builds its note.
func (f *LectureFetcher) Resolve(ctx context.Context, courseID, lectureID int64, credential string) (types.LectureNote, error) {
	chapters, err := f.curriculum.Resolve(ctx, courseID, credential)
	if err != nil {
		return types.LectureNote{}, err
	}
	return f.ResolveIn(ctx, courseID, lectureID, credential, chapters)
}

// ResolveIn builds the note for lectureID using an already resolved
// curriculum. Missing captions, an empty transcript or a failed summary all
// yield placeholder content. Errors come only from an unknown lecture or
// from fetching caption metadata or caption bytes.
func (f *LectureFetcher) ResolveIn(ctx context.Context, courseID, lectureID int64, credential string, chapters []types.Chapter) (types.LectureNote, error) {
	ctx, span := otel.Tracer("notes").Start(ctx, "notes.lecture")
	defer span.End()
	span.SetAttributes(attribute.Int64("course.id", courseID), attribute.Int64("lecture.id", lectureID))

	ch, lec, ok := types.FindLecture(chapters, lectureID)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrLectureNotFound, lectureID)
		span.SetStatus(codes.Error, err.Error())
		return types.LectureNote{}, err
	}
	note := PlaceholderNote(ch, lec)

	captions, err := f.udemy.LectureCaptions(ctx, courseID, lectureID, credential)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return types.LectureNote{}, err
	}
	caption, ok := types.SelectEnglishCaption(captions)
	if !ok {
		f.log.Info("no english captions", "course_id", courseID, "lecture_id", lectureID, "captions", len(captions))
		return note, nil
	}

	body, err := f.udemy.FetchCaption(ctx, caption.URL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return types.LectureNote{}, err
	}
	transcript := vtt.ToMarkdown(body)
	if transcript == "" {
		f.log.Info("caption track has no text", "course_id", courseID, "lecture_id", lectureID)
		return note, nil
	}

	content, err := f.summarizer.Summarize(ctx, transcript, lec.Title)
	if err == nil && strings.TrimSpace(content) == "" {
		err = errors.New("empty summary")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.LectureNote{}, ctxErr
		}
		f.log.Warn("lecture summary fell back to placeholder",
			"course_id", courseID,
			"lecture_id", lectureID,
			"error", fmt.Errorf("%w: %w", ErrSummarizationFailed, err),
		)
		span.SetAttributes(attribute.Bool("notes.placeholder", true))
		return note, nil
	}

	note.Content = content
	note.Placeholder = false
	return note, nil
}

// PlaceholderNote is the note used when a lecture has no usable captions.
func PlaceholderNote(ch types.Chapter, lec types.Lecture) types.LectureNote {
	return types.LectureNote{
		LectureID:    lec.ID,
		ChapterTitle: ch.Title,
		ChapterIndex: ch.ObjectIndex,
		LectureTitle: lec.Title,
		ObjectIndex:  lec.ObjectIndex,
		Content:      placeholderContent(lec.Title),
		Placeholder:  true,
	}
}

func placeholderContent(title string) string {
	return "## " + title + "\n\nNo captions available for this lecture."
}
