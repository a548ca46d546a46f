package serve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallnest/runnablego/log"
	"github.com/smallnest/runnablego/runnable"
)

// Server publishes registered runnables over HTTP. Each runnable is mounted
// under its registration name with a fixed set of endpoints:
//
//	POST /:name/invoke      run on one input
//	POST /:name/batch       run on many inputs
//	POST /:name/stream      run on one input, stream chunks as SSE
//	GET  /:name/playground  browser page for trying the runnable
//	POST /:name/render      render Markdown output to sanitized HTML
type Server struct {
	engine *gin.Engine
	logger log.Logger

	mu        sync.RWMutex
	runnables map[string]runnable.Runnable
}

type Option func(*Server)

// WithLogger sets the logger used by the request middleware.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server with the runnable endpoints mounted.
func New(opts ...Option) *Server {
	s := &Server{
		logger:    log.GetDefaultLogger(),
		runnables: make(map[string]runnable.Runnable),
	}

	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.POST("/:name/invoke", s.handleInvoke)
	engine.POST("/:name/batch", s.handleBatch)
	engine.POST("/:name/stream", s.handleStream)
	engine.GET("/:name/playground", s.handlePlayground)
	engine.POST("/:name/render", s.handleRender)

	s.engine = engine
	return s
}

// Register mounts r under name. Registering the same name again replaces the
// previous runnable.
func (s *Server) Register(name string, r runnable.Runnable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runnables[name] = r
}

// Handler returns the underlying http.Handler, for tests and for callers
// that mount the server inside a larger mux.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("serving runnables on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// apiResponse is the envelope every JSON endpoint answers with.
type apiResponse struct {
	Errors []string `json:"errors,omitempty"`
	Data   any      `json:"data,omitempty"`
}

func respondOK(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, apiResponse{Data: obj})
}

func respondError(c *gin.Context, status int, errs ...error) {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	c.AbortWithStatusJSON(status, apiResponse{Errors: messages})
}

// requestConfig is the wire form of the per-call runnable config.
type requestConfig struct {
	MaxConcurrency int            `json:"max_concurrency"`
	Tags           []string       `json:"tags"`
	Metadata       map[string]any `json:"metadata"`
	SessionID      string         `json:"session_id"`
}

func (rc *requestConfig) toOptions() []runnable.Option {
	if rc == nil {
		return nil
	}
	var opts []runnable.Option
	if rc.MaxConcurrency > 0 {
		opts = append(opts, runnable.WithMaxConcurrency(rc.MaxConcurrency))
	}
	if len(rc.Tags) > 0 {
		opts = append(opts, runnable.WithTags(rc.Tags...))
	}
	if len(rc.Metadata) > 0 {
		opts = append(opts, runnable.WithMetadata(rc.Metadata))
	}
	if rc.SessionID != "" {
		opts = append(opts, runnable.WithSessionID(rc.SessionID))
	}
	return opts
}

type invokeRequest struct {
	Input  any            `json:"input"`
	Config *requestConfig `json:"config"`
}

type batchRequest struct {
	Inputs []any          `json:"inputs"`
	Config *requestConfig `json:"config"`
}

func (s *Server) lookup(c *gin.Context) (runnable.Runnable, bool) {
	name := c.Param("name")

	s.mu.RLock()
	r, ok := s.runnables[name]
	s.mu.RUnlock()

	if !ok {
		respondError(c, http.StatusNotFound, fmt.Errorf("unknown runnable: %s", name))
		return nil, false
	}
	return r, true
}

func (s *Server) handleInvoke(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}

	var req invokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	out, err := r.Invoke(c.Request.Context(), req.Input, req.Config.toOptions()...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"output": out})
}

func (s *Server) handleBatch(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Inputs == nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("inputs is required"))
		return
	}

	outputs, err := r.Batch(c.Request.Context(), req.Inputs, req.Config.toOptions()...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"output": outputs})
}

// sseChunk is the wire form of one streamed chunk.
type sseChunk struct {
	Value  any    `json:"value"`
	Branch string `json:"branch,omitempty"`
}

func (s *Server) handleStream(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}

	var req invokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	stream, err := r.Stream(c.Request.Context(), req.Input, req.Config.toOptions()...)
	if err != nil {
		writeSSEError(w, err)
		return
	}
	defer stream.Cancel()

	for chunk := range stream.Chunks {
		fmt.Fprintf(w, "data: %s\n\n", marshalSSE(sseChunk{Value: chunk.Value, Branch: chunk.Branch}))
		w.Flush()
	}

	select {
	case out := <-stream.Result:
		fmt.Fprintf(w, "event: end\ndata: %s\n\n", marshalSSE(gin.H{"output": out}))
	case err := <-stream.Errors:
		writeSSEError(w, err)
		return
	}
	w.Flush()
}

func writeSSEError(w gin.ResponseWriter, err error) {
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", strconv.Quote(err.Error()))
	w.Flush()
}

// marshalSSE encodes v for one SSE data line. JSON never contains raw
// newlines, so the event framing stays intact whatever the payload is.
func marshalSSE(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(strconv.Quote(fmt.Sprint(v)))
	}
	return data
}
