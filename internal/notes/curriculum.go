package notes

import (
	"context"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

type CurriculumResolver struct {
	log   *logger.Logger
	udemy udemy.Client
}

func NewCurriculumResolver(log *logger.Logger, uc udemy.Client) *CurriculumResolver {
	return &CurriculumResolver{
		log:   log.With("service", "CurriculumResolver"),
		udemy: uc,
	}
}

// Resolve fetches the course's item list in one request and folds it into
// chapters. Upstream errors are returned unchanged.
func (r *CurriculumResolver) Resolve(ctx context.Context, courseID int64, credential string) ([]types.Chapter, error) {
	items, err := r.udemy.CurriculumItems(ctx, courseID, credential)
	if err != nil {
		return nil, err
	}
	chapters := BuildChapters(items)
	r.log.Debug("curriculum resolved", "course_id", courseID, "items", len(items), "chapters", len(chapters))
	return chapters, nil
}

// BuildChapters folds the pre-ordered item sequence into chapters. Each
// lecture joins the chapter most recently seen before it; lectures with no
// preceding chapter and non-lecture items are dropped.
func BuildChapters(items []types.CurriculumItem) []types.Chapter {
	var chapters []types.Chapter
	for _, it := range items {
		switch it.Class {
		case types.ItemClassChapter:
			chapters = append(chapters, types.Chapter{
				ID:          it.ID,
				Title:       it.Title,
				ObjectIndex: it.ObjectIndex,
				Lectures:    []types.Lecture{},
			})
		case types.ItemClassLecture:
			if len(chapters) == 0 {
				continue
			}
			last := &chapters[len(chapters)-1]
			last.Lectures = append(last.Lectures, types.Lecture{
				ID:          it.ID,
				Title:       it.Title,
				ObjectIndex: it.ObjectIndex,
			})
		}
	}
	return chapters
}
