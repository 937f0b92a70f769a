package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursenotes-backend/internal/http/response"
	"github.com/yungbote/coursenotes-backend/internal/notes"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/sse"
)

type NotesHandler struct {
	log      *logger.Logger
	pipeline *notes.Pipeline
	stream   *sse.Stream
}

func NewNotesHandler(log *logger.Logger, pipeline *notes.Pipeline, stream *sse.Stream) *NotesHandler {
	return &NotesHandler{
		log:      log.With("handler", "NotesHandler"),
		pipeline: pipeline,
		stream:   stream,
	}
}

// LectureNote previews a single lecture's note.
func (h *NotesHandler) LectureNote(c *gin.Context) {
	courseID, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, badRequest("invalid course id"))
		return
	}
	lectureID, err := parseID(c.Param("lectureId"))
	if err != nil {
		response.RespondAPIError(c, badRequest("invalid lecture id"))
		return
	}
	credential := credentialFrom(c)
	if credential == "" {
		response.RespondAPIError(c, badRequest(msgMissingParams))
		return
	}
	note, err := h.pipeline.Lecture(c.Request.Context(), courseID, lectureID, credential)
	if err != nil {
		h.log.Warn("LectureNote failed", "course_id", courseID, "lecture_id", lectureID, "error", err)
		response.RespondAPIError(c, classify(err))
		return
	}
	response.RespondOK(c, note)
}

// Progress runs the store-backed protocol and streams progress as SSE.
func (h *NotesHandler) Progress(c *gin.Context) {
	courseID, err := parseID(c.Query("courseId"))
	if err != nil {
		response.RespondAPIError(c, badRequest(msgMissingParams))
		return
	}
	lectureIDs, err := parseIDList(c.Query("lectureIds"))
	if err != nil || len(lectureIDs) == 0 {
		response.RespondAPIError(c, badRequest(msgMissingParams))
		return
	}
	credential := credentialFrom(c)
	if credential == "" {
		response.RespondAPIError(c, badRequest(msgMissingParams))
		return
	}

	events := h.pipeline.Stream(c.Request.Context(), notes.Request{
		CourseID:   courseID,
		LectureIDs: lectureIDs,
		Credential: credential,
	})
	sse.Serve(h.stream, c.Writer, c.Request, events)
}

// DownloadStored serves the archive of a finished Progress run.
func (h *NotesHandler) DownloadStored(c *gin.Context) {
	courseID, err := parseID(c.Query("courseId"))
	runID := strings.TrimSpace(c.Query("timestamp"))
	if err != nil || runID == "" {
		response.RespondAPIError(c, badRequest(msgMissingParams))
		return
	}
	bundle, err := h.pipeline.Download(c.Request.Context(), courseID, runID)
	if err != nil {
		h.log.Info("DownloadStored miss", "course_id", courseID, "run_id", runID, "error", err)
		response.RespondAPIError(c, classify(err))
		return
	}
	h.writeBundle(c, bundle)
}

type directDownloadRequest struct {
	CourseID   flexID   `json:"courseId"`
	LectureIDs []flexID `json:"lectureIds"`
}

// DownloadDirect runs the lectures and answers with the archive in one call.
func (h *NotesHandler) DownloadDirect(c *gin.Context) {
	var req directDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, badRequest("invalid request body"))
		return
	}
	lectureIDs := flexIDs(req.LectureIDs)
	credential := credentialFrom(c)
	if req.CourseID <= 0 || len(lectureIDs) == 0 || credential == "" {
		response.RespondAPIError(c, badRequest(msgMissingParams))
		return
	}
	bundle, err := h.pipeline.Archive(c.Request.Context(), notes.Request{
		CourseID:   int64(req.CourseID),
		LectureIDs: lectureIDs,
		Credential: credential,
	}, nil)
	if err != nil {
		h.log.Warn("DownloadDirect failed", "course_id", int64(req.CourseID), "error", err)
		response.RespondAPIError(c, classify(err))
		return
	}
	h.writeBundle(c, bundle)
}

// writeBundle pipes the ZIP writer into the response so the archive is
// never buffered whole.
func (h *NotesHandler) writeBundle(c *gin.Context, bundle *notes.Bundle) {
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+bundle.FileName()+`"`)
	c.Status(http.StatusOK)

	pr, pw := io.Pipe()
	var g errgroup.Group
	g.Go(func() error {
		err := bundle.Write(pw)
		_ = pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(c.Writer, pr)
		_ = pr.CloseWithError(err)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Warn("archive stream aborted", "file", bundle.FileName(), "error", err)
	}
}
