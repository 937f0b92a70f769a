package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursenotes-backend/internal/http/response"
	"github.com/yungbote/coursenotes-backend/internal/platform/apierr"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
	"github.com/yungbote/coursenotes-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

type listCoursesRequest struct {
	Cookie string `json:"cookie"`
	Page   int    `json:"page"`
	Search string `json:"search"`
	Sort   string `json:"sort"`
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req listCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Cookie) == "" {
		response.RespondAPIError(c, badRequest("Cookie is required"))
		return
	}
	page, err := h.courseService.ListCourses(c.Request.Context(), req.Cookie, services.CourseListQuery{
		Page:   req.Page,
		Search: req.Search,
		Sort:   req.Sort,
	})
	if err != nil {
		h.log.Warn("ListCourses failed", "error", err)
		if udemy.IsAuthRejected(err) {
			response.RespondAPIError(c, apierr.WithMessage(http.StatusUnauthorized, string(udemy.ErrorAuthRejected), "Invalid cookie", err))
			return
		}
		response.RespondAPIError(c, classify(err))
		return
	}
	response.RespondOK(c, page)
}

type curriculumRequest struct {
	Cookie   string `json:"cookie"`
	CourseID flexID `json:"courseId"`
}

func (h *CourseHandler) Curriculum(c *gin.Context) {
	var req curriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest("invalid request body"))
		return
	}
	if req.CourseID <= 0 || strings.TrimSpace(req.Cookie) == "" {
		response.RespondAPIError(c, badRequest("Course ID and cookie are required"))
		return
	}
	out, err := h.courseService.Curriculum(c.Request.Context(), int64(req.CourseID), req.Cookie)
	if err != nil {
		h.log.Warn("Curriculum failed", "course_id", int64(req.CourseID), "error", err)
		response.RespondAPIError(c, classify(err))
		return
	}
	response.RespondOK(c, out)
}
