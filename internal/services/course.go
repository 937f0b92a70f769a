package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/coursenotes-backend/internal/notes"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

const DefaultCourseOrdering = "-last_accessed"

type CourseListQuery struct {
	Page   int
	Search string
	Sort   string
}

type Curriculum struct {
	CourseID int64                  `json:"courseId"`
	Count    int                    `json:"count"`
	Results  []types.CurriculumItem `json:"results"`
	Chapters []types.Chapter        `json:"chapters"`
}

// CourseService backs the course grid and course page. Both calls are thin
// passthroughs to the upstream platform.
type CourseService interface {
	ListCourses(ctx context.Context, credential string, q CourseListQuery) (types.Page[types.Course], error)
	Curriculum(ctx context.Context, courseID int64, credential string) (*Curriculum, error)
}

type courseService struct {
	log   *logger.Logger
	udemy udemy.Client
}

func NewCourseService(log *logger.Logger, uc udemy.Client) CourseService {
	return &courseService{
		log:   log.With("service", "CourseService"),
		udemy: uc,
	}
}

func (s *courseService) ListCourses(ctx context.Context, credential string, q CourseListQuery) (types.Page[types.Course], error) {
	if strings.TrimSpace(credential) == "" {
		return types.Page[types.Course]{}, fmt.Errorf("credential required")
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	sort := strings.TrimSpace(q.Sort)
	if sort == "" {
		sort = DefaultCourseOrdering
	}
	out, err := s.udemy.ListCourses(ctx, credential, udemy.CourseQuery{
		Page:   page,
		Search: strings.TrimSpace(q.Search),
		Sort:   sort,
	})
	if err != nil {
		return types.Page[types.Course]{}, err
	}
	s.log.Debug("courses listed", "page", page, "count", out.Count, "results", len(out.Results))
	return out, nil
}

func (s *courseService) Curriculum(ctx context.Context, courseID int64, credential string) (*Curriculum, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("credential required")
	}
	items, err := s.udemy.CurriculumItems(ctx, courseID, credential)
	if err != nil {
		return nil, err
	}
	return &Curriculum{
		CourseID: courseID,
		Count:    len(items),
		Results:  items,
		Chapters: notes.BuildChapters(items),
	}, nil
}
