// Package server exposes the render engine over HTTP for notebook front-ends.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/spektr-org/spektr-scatter/engine"
	"github.com/spektr-org/spektr-scatter/helpers"
	"github.com/spektr-org/spektr-scatter/preview"
	"github.com/spektr-org/spektr-scatter/schema"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 8 << 20

// Config configures a Server.
type Config struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// StrictParameters rejects renders with invalid chart parameters.
	StrictParameters bool
	// MaxBodyBytes caps request bodies; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server serves chart renders.
type Server struct {
	logger *log.Logger
	cfg    Config
	router chi.Router

	// renderPNG draws the preview image.
	renderPNG func(w io.Writer, cfg *engine.ChartConfig) error
}

// New creates a Server. A nil logger falls back to log.Default().
func New(logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{logger: logger, cfg: cfg, renderPNG: pngPreview}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/charts", s.handleCharts)
		r.Post("/render", s.handleRender)
		r.Post("/render/scatter", s.handleRenderScatter)
		r.Post("/render/bubble", s.handleRenderBubble)
		r.Post("/preview.png", s.handlePreview)
	})
	s.router = r
	return s
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// ============================================================================
// REQUEST TYPES
// ============================================================================

// TablePayload is a query result sent inline.
type TablePayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// RenderPayload is the body of POST /api/render and /api/preview.png.
type RenderPayload struct {
	engine.RenderRequest
	Table TablePayload `json:"table"`
}

// ScatterPayload is the body of POST /api/render/scatter.
type ScatterPayload struct {
	Input     engine.ScatterInput `json:"input"`
	Parameter map[string]any      `json:"parameter,omitempty"`
}

// BubblePayload is the body of POST /api/render/bubble.
type BubblePayload struct {
	Input     engine.BubbleInput `json:"input"`
	Parameter map[string]any     `json:"parameter,omitempty"`
}

// toTable converts the inline table into a helpers.Table. JSON numbers and
// booleans become their text form; nulls stay empty.
func (p TablePayload) toTable() *helpers.Table {
	rows := make([][]string, len(p.Rows))
	for i, row := range p.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellText(v)
		}
		rows[i] = cells
	}
	return helpers.NewTable(p.Columns, rows)
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCharts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schema.Charts())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var p RenderPayload
	if !s.decode(w, r, &p) {
		return
	}
	res := engine.Render(p.RenderRequest, p.Table.toTable().View(), s.engineOptions(r)...)
	writeJSON(w, statusFor(res), res)
}

func (s *Server) handleRenderScatter(w http.ResponseWriter, r *http.Request) {
	var p ScatterPayload
	if !s.decode(w, r, &p) {
		return
	}
	res := engine.RenderScatter(p.Input, p.Parameter, s.engineOptions(r)...)
	writeJSON(w, statusFor(res), res)
}

func (s *Server) handleRenderBubble(w http.ResponseWriter, r *http.Request) {
	var p BubblePayload
	if !s.decode(w, r, &p) {
		return
	}
	res := engine.RenderBubble(p.Input, p.Parameter, s.engineOptions(r)...)
	writeJSON(w, statusFor(res), res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var p RenderPayload
	if !s.decode(w, r, &p) {
		return
	}
	res := engine.Render(p.RenderRequest, p.Table.toTable().View(), s.engineOptions(r)...)
	if res.Type != engine.ResultChart {
		writeJSON(w, statusFor(res), res)
		return
	}

	var buf bytes.Buffer
	if err := s.renderPNG(&buf, res.Config); err != nil {
		s.logger.Error("preview failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusInternalServerError, &engine.Result{
			Type:    engine.ResultError,
			Chart:   res.Chart,
			Code:    engine.ErrCodeInternal,
			Message: "preview failed: " + err.Error(),
		})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func pngPreview(w io.Writer, cfg *engine.ChartConfig) error {
	return preview.Render(w, cfg, "png", 0, 0)
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, &engine.Result{
			Type:    engine.ResultError,
			Code:    engine.ErrCodeInvalidInput,
			Message: "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

func (s *Server) engineOptions(r *http.Request) []engine.Option {
	opts := []engine.Option{engine.WithLogger(s.logger.With("request_id", middleware.GetReqID(r.Context())))}
	if s.cfg.StrictParameters {
		opts = append(opts, engine.WithStrictParameters())
	}
	return opts
}

// statusFor maps a render result to an HTTP status. Hidden charts are a
// normal outcome.
func statusFor(res *engine.Result) int {
	if res.Type != engine.ResultError {
		return http.StatusOK
	}
	switch res.Code {
	case engine.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

// echoRequestID returns the request id set by middleware.RequestID in the
// X-Request-Id response header.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
