package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/profile"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
	"github.com/Sumatoshi-tech/locmeta/pkg/timeline"
)

// Profile endpoint errors.
var (
	ErrNoProfile          = errors.New("no profile configured")
	ErrProfileUnavailable = errors.New("profile unavailable")
)

// StatsResponse is the payload of /api/stats.
type StatsResponse struct {
	Label     string              `json:"label"`
	Progress  float64             `json:"progress"`
	Step      int                 `json:"step"`
	Visible   int                 `json:"visible"`
	Total     int                 `json:"total"`
	Message   string              `json:"message,omitempty"`
	Stats     stats.Summary       `json:"stats"`
	Cards     []stats.Card        `json:"cards"`
	Selection dashboard.Selection `json:"selection"`
}

// CommitsResponse is the payload of /api/commits. Selected lists the brushed
// commits when a brush is given.
type CommitsResponse struct {
	Label    string                   `json:"label"`
	Total    int                      `json:"total"`
	Commits  []CommitEntry            `json:"commits"`
	Selected []CommitEntry            `json:"selected,omitempty"`
	Scatter  []dashboard.ScatterPoint `json:"scatter"`
}

// CommitEntry is a commit without its line records.
type CommitEntry struct {
	ID           string    `json:"id"`
	Datetime     time.Time `json:"datetime"`
	Author       string    `json:"author,omitempty"`
	URL          string    `json:"url,omitempty"`
	HourFraction float64   `json:"hour_fraction"`
	TotalLines   int       `json:"total_lines"`
	Files        []string  `json:"files"`
}

// FilesResponse is the payload of /api/files.
type FilesResponse struct {
	Label  string              `json:"label"`
	Files  []dashboard.FileRow `json:"files"`
	Legend []dashboard.Dot     `json:"legend"`
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/", s.page)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "commits": len(s.commits)})
	})

	r.GET("/api/view", getP(s.viewJSON))
	r.GET("/api/stats", getP(s.stats))
	r.GET("/api/commits", getP(s.commitList))
	r.GET("/api/files", getP(s.files))
	r.GET("/api/steps", get(s.steps))
	r.GET("/api/profile", get(s.profileJSON))

	if s.opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(s.opts.MetricsHandler))
	}

	return r
}

func (s *Server) page(c *gin.Context) {
	var params ViewParams

	err := c.ShouldBindQuery(&params)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())

		return
	}

	v, err := s.view(c.Request.Context(), "page", &params)
	if err != nil {
		c.String(statusOf(err), err.Error())

		return
	}

	opts := s.opts.Page
	opts.Interactive = true
	opts.Query = c.Request.URL.Query()

	if s.opts.Username != "" {
		opts.Profile = profile.Card(s.profileState())
	}

	var buf bytes.Buffer

	err = dashboard.RenderPage(&buf, v, opts)
	if err != nil {
		sendError(c, err)

		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) viewJSON(ctx context.Context, p *ViewParams) (any, error) {
	return s.view(ctx, "view", p)
}

func (s *Server) stats(ctx context.Context, p *ViewParams) (any, error) {
	v, err := s.view(ctx, "stats", p)
	if err != nil {
		return nil, err
	}

	return StatsResponse{
		Label:     v.Label,
		Progress:  v.Progress,
		Step:      v.Step,
		Visible:   len(v.Commits),
		Total:     v.Total,
		Message:   v.Message,
		Stats:     v.Stats,
		Cards:     v.Cards,
		Selection: v.Selection,
	}, nil
}

func (s *Server) commitList(ctx context.Context, p *ViewParams) (any, error) {
	v, err := s.view(ctx, "commits", p)
	if err != nil {
		return nil, err
	}

	resp := CommitsResponse{
		Label:   v.Label,
		Total:   v.Total,
		Commits: lo.Map(v.Commits, func(c commits.Summary, _ int) CommitEntry { return commitEntry(c) }),
		Scatter: v.Scatter,
	}

	if v.Selection.Active {
		byID := commits.ByID(v.Commits)
		resp.Selected = lo.Map(v.Selection.IDs, func(id string, _ int) CommitEntry {
			return commitEntry(byID[id])
		})
	}

	return resp, nil
}

func commitEntry(c commits.Summary) CommitEntry {
	return CommitEntry{
		ID:           c.ID,
		Datetime:     c.Timestamp,
		Author:       c.Author,
		URL:          c.URL,
		HourFraction: c.HourFraction,
		TotalLines:   c.TotalLines,
		Files:        c.Files(),
	}
}

func (s *Server) files(ctx context.Context, p *ViewParams) (any, error) {
	v, err := s.view(ctx, "files", p)
	if err != nil {
		return nil, err
	}

	return FilesResponse{Label: v.Label, Files: v.FileRows, Legend: v.Legend}, nil
}

func (s *Server) steps(context.Context) (any, error) {
	return timeline.Steps(s.commits), nil
}

func (s *Server) profileJSON(context.Context) (any, error) {
	if s.opts.Username == "" {
		return nil, ErrNoProfile
	}

	p, err := s.profileState()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}

	if p == nil {
		return nil, ErrNoProfile
	}

	return p, nil
}

// view builds a fresh controller over the shared commits and replays the
// request parameters on it. The result is detached: frame diffs of a
// per-request controller carry no information.
func (s *Server) view(ctx context.Context, op string, p *ViewParams) (dashboard.View, error) {
	ctrl := dashboard.NewController(s.opts.Dashboard)
	ctrl.Load(s.commits)

	err := p.apply(ctrl)
	if err != nil {
		return dashboard.View{}, err
	}

	v := ctrl.View().Detach()

	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordView(ctx, op, len(v.Commits))
	}

	return v, nil
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.opts.Logger.DebugContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func get(f func(context.Context) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := f(c.Request.Context())
		if err != nil {
			sendError(c, err)

			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func getP[P any](f func(context.Context, *P) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params P

		err := c.ShouldBindQuery(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		result, err := f(c.Request.Context(), &params)
		if err != nil {
			sendError(c, err)

			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func sendError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCutoff),
		errors.Is(err, dashboard.ErrInvalidBrush),
		errors.Is(err, timeline.ErrInvalidProgress),
		errors.Is(err, timeline.ErrStepOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoProfile), errors.Is(err, profile.ErrEmptyUsername):
		return http.StatusNotFound
	case errors.Is(err, ErrProfileUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
