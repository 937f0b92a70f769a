package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursenotes-backend/internal/http"
	httpH "github.com/yungbote/coursenotes-backend/internal/http/handlers"
	"github.com/yungbote/coursenotes-backend/internal/observability"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/sse"
)

const serviceName = "coursenotes-backend"

type Handlers struct {
	Health *httpH.HealthHandler
	Course *httpH.CourseHandler
	Notes  *httpH.NotesHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Course: httpH.NewCourseHandler(log, services.Course),
		Notes:  httpH.NewNotesHandler(log, services.Pipeline, sse.NewStream(log, sse.DefaultHeartbeat)),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:           log,
		ServiceName:   serviceName,
		CORSOrigins:   cfg.CORSOrigins,
		Metrics:       metrics,
		Tracing:       cfg.TracingEnabled,
		HealthHandler: handlers.Health,
		CourseHandler: handlers.Course,
		NotesHandler:  handlers.Notes,
	})
}
