package app

import (
	"github.com/facebookgo/clock"

	"github.com/yungbote/coursenotes-backend/internal/notes"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/services"
)

type Services struct {
	Course   services.CourseService
	Pipeline *notes.Pipeline
}

func wireServices(log *logger.Logger, clients Clients) Services {
	log.Info("Wiring services...")

	var summarizer notes.Summarizer
	if clients.OpenAI != nil {
		summarizer = notes.NewLLMSummarizer(log, clients.OpenAI, notes.LoadPromptSpec(log))
	} else {
		summarizer = notes.NewPassthroughSummarizer()
	}

	curriculum := notes.NewCurriculumResolver(log, clients.Udemy)
	fetcher := notes.NewLectureFetcher(log, clients.Udemy, curriculum, summarizer)
	emitter := notes.NewEmitter(log, clients.Udemy, curriculum, fetcher)

	return Services{
		Course:   services.NewCourseService(log, clients.Udemy),
		Pipeline: notes.NewPipeline(log, emitter, fetcher, clients.NoteStore, clock.New()),
	}
}
