package udemy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/coursenotes-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

const (
	DefaultBaseURL = "https://www.udemy.com/api-2.0"

	coursePageSize     = 50
	curriculumPageSize = 1000
	maxCaptionBytes    = 16 << 20
	maxJSONBytes       = 32 << 20

	courseFields = "completion_ratio,image_240x135,image_480x270,num_collections,published_title,title,tracking_id,url"
)

// Client talks to the upstream course platform. The credential is an opaque
// cookie string forwarded verbatim; it is never parsed.
type Client interface {
	ListCourses(ctx context.Context, credential string, q CourseQuery) (types.Page[types.Course], error)
	GetCourse(ctx context.Context, courseID int64, credential string) (types.Course, error)
	CurriculumItems(ctx context.Context, courseID int64, credential string) ([]types.CurriculumItem, error)
	LectureCaptions(ctx context.Context, courseID, lectureID int64, credential string) ([]types.Caption, error)
	FetchCaption(ctx context.Context, captionURL string) (string, error)
}

type CourseQuery struct {
	Page   int
	Search string
	Sort   string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type client struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid udemy base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &client{
		log:     log.With("client", "UdemyClient"),
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) ListCourses(ctx context.Context, credential string, q CourseQuery) (types.Page[types.Course], error) {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	sort := strings.TrimSpace(q.Sort)
	if sort == "" {
		sort = "-last_accessed"
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(coursePageSize))
	params.Set("ordering", sort)
	params.Set("fields[course]", courseFields)
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}

	var out types.Page[types.Course]
	err := c.getJSON(ctx, "list_courses", "/users/me/subscribed-courses/", params, credential, &out)
	return out, err
}

func (c *client) GetCourse(ctx context.Context, courseID int64, credential string) (types.Course, error) {
	params := url.Values{}
	params.Set("fields[course]", courseFields)
	var out types.Course
	err := c.getJSON(ctx, "get_course", fmt.Sprintf("/courses/%d/", courseID), params, credential, &out)
	return out, err
}

func (c *client) CurriculumItems(ctx context.Context, courseID int64, credential string) ([]types.CurriculumItem, error) {
	params := url.Values{}
	params.Set("curriculum_types", "chapter,lecture")
	params.Set("page_size", strconv.Itoa(curriculumPageSize))
	params.Set("fields[lecture]", "title,object_index")
	params.Set("fields[chapter]", "title,object_index")

	var out types.Page[types.CurriculumItem]
	if err := c.getJSON(ctx, "curriculum", fmt.Sprintf("/courses/%d/subscriber-curriculum-items/", courseID), params, credential, &out); err != nil {
		return nil, err
	}
	if out.Next != nil && *out.Next != "" {
		c.log.Warn("curriculum has more pages than fetched; later items ignored",
			"course_id", courseID,
			"fetched", len(out.Results),
			"count", out.Count,
		)
	}
	return out.Results, nil
}

type lectureAssetResponse struct {
	Asset *struct {
		Captions []json.RawMessage `json:"captions"`
	} `json:"asset"`
}

func (c *client) LectureCaptions(ctx context.Context, courseID, lectureID int64, credential string) ([]types.Caption, error) {
	params := url.Values{}
	params.Set("fields[asset]", "captions")

	var out lectureAssetResponse
	path := fmt.Sprintf("/users/me/subscribed-courses/%d/lectures/%d/", courseID, lectureID)
	if err := c.getJSON(ctx, "lecture_captions", path, params, credential, &out); err != nil {
		return nil, err
	}
	if out.Asset == nil {
		return nil, nil
	}
	captions := make([]types.Caption, 0, len(out.Asset.Captions))
	for _, raw := range out.Asset.Captions {
		var caption types.Caption
		// non-object entries are skipped
		if err := json.Unmarshal(raw, &caption); err != nil {
			continue
		}
		captions = append(captions, caption)
	}
	return captions, nil
}

// FetchCaption downloads a caption file from the CDN. The session credential
// is never attached to caption URLs.
func (c *client) FetchCaption(ctx context.Context, captionURL string) (string, error) {
	const op = "fetch_caption"
	ctx, span := otel.Tracer("udemy").Start(ctxutil.Default(ctx), "udemy."+op)
	defer span.End()
	span.SetAttributes(requestAttrs(ctx)...)

	u, err := url.Parse(strings.TrimSpace(captionURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		e := &Error{Code: ErrorMalformedResponse, Op: op, Message: "caption url is not http(s)"}
		span.SetStatus(codes.Error, e.Error())
		return "", e
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", transportError(op, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		e := transportError(op, err)
		span.SetStatus(codes.Error, e.Error())
		return "", e
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		e := transportError(op, err)
		span.SetStatus(codes.Error, e.Error())
		return "", e
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode), attribute.Int("caption.bytes", len(raw)))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := statusError(op, resp.StatusCode, raw)
		span.SetStatus(codes.Error, e.Error())
		return "", e
	}
	return string(raw), nil
}

func (c *client) getJSON(ctx context.Context, op, path string, params url.Values, credential string, out any) error {
	ctx, span := otel.Tracer("udemy").Start(ctxutil.Default(ctx), "udemy."+op)
	defer span.End()
	span.SetAttributes(requestAttrs(ctx)...)

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return transportError(op, err)
	}
	req.Header.Set("Cookie", credential)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		e := transportError(op, err)
		span.SetStatus(codes.Error, e.Error())
		c.log.Warn("udemy request failed", "op", op, "request_id", requestID(ctx), "error", err)
		return e
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBytes))
	if err != nil {
		e := transportError(op, err)
		span.SetStatus(codes.Error, e.Error())
		return e
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.Debug("udemy request",
		"op", op,
		"request_id", requestID(ctx),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := statusError(op, resp.StatusCode, raw)
		span.SetStatus(codes.Error, e.Error())
		return e
	}
	if err := json.Unmarshal(raw, out); err != nil {
		e := decodeError(op, err)
		span.SetStatus(codes.Error, e.Error())
		return e
	}
	return nil
}

func requestID(ctx context.Context) string {
	if td := ctxutil.GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

// requestAttrs tags upstream spans with the inbound request and trace ids.
func requestAttrs(ctx context.Context) []attribute.KeyValue {
	td := ctxutil.GetTraceData(ctx)
	if td == nil {
		return nil
	}
	var attrs []attribute.KeyValue
	if td.RequestID != "" {
		attrs = append(attrs, attribute.String("request.id", td.RequestID))
	}
	if td.TraceID != "" {
		attrs = append(attrs, attribute.String("request.trace_id", td.TraceID))
	}
	return attrs
}
