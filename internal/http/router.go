package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursenotes-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursenotes-backend/internal/http/middleware"
	"github.com/yungbote/coursenotes-backend/internal/observability"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	Tracing     bool

	HealthHandler *httpH.HealthHandler
	CourseHandler *httpH.CourseHandler
	NotesHandler  *httpH.NotesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Course catalog
		if cfg.CourseHandler != nil {
			api.POST("/udemy/courses", cfg.CourseHandler.ListCourses)
			api.POST("/udemy/curriculum", cfg.CourseHandler.Curriculum)
		}

		// Notes
		if cfg.NotesHandler != nil {
			api.GET("/courses/:id/lectures/:lectureId/notes", cfg.NotesHandler.LectureNote)
			api.GET("/generate-zip/progress", cfg.NotesHandler.Progress)
			api.GET("/download-zip", cfg.NotesHandler.DownloadStored)
			api.POST("/generate-zip/download", cfg.NotesHandler.DownloadDirect)
		}
	}

	return r
}
