package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/example/go-wordninja/internal/config"
	"github.com/example/go-wordninja/internal/dictfile"
	"github.com/example/go-wordninja/internal/segment"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// MaxK caps the number of candidates a single request may ask for.
const MaxK = 100

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Segmenter is the language model served over HTTP.
type Segmenter interface {
	Split(text string) []string
	Candidates(text string, k int) []segment.Candidate
	Rejoin(text string) string
	Language() string
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	cacheSize      int
	rateLimit      float64
	rateBurst      int
	defaultK       int
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   64 << 10,
		workers:        4,
		requestTimeout: 10 * time.Second,
		cacheSize:      1024,
		defaultK:       10,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent segmentation calls.
// Zero disables the limit.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request deadline. Zero or less disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithCacheSize sets the number of cached results. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithRateLimit allows rps requests per second with the given burst.
// A non-positive rps disables rate limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = rps
		o.rateBurst = burst
	}
}

// WithDefaultK sets the candidate count used when a request omits k.
func WithDefaultK(k int) Option {
	return func(o *options) { o.defaultK = k }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type cacheKey struct {
	op   string
	k    int
	text string
}

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	seg     Segmenter
	opts    options
	sem     chan struct{} // semaphore for worker pool
	cache   *lru.Cache[cacheKey, any]
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /languages and
// POST /split, /candidates and /rejoin.
func NewHandler(seg Segmenter, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		seg:  seg,
		opts: opts,
		log:  opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}
	if opts.cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		h.cache, _ = lru.New[cacheKey, any](opts.cacheSize)
	}
	if opts.rateLimit > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(opts.rateLimit), max(opts.rateBurst, 1))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/languages", h.handleLanguages)
	mux.HandleFunc("/split", h.handleSplit)
	mux.HandleFunc("/candidates", h.handleCandidates)
	mux.HandleFunc("/rejoin", h.handleRejoin)
	return h.withRequestID(h.withRateLimit(mux))
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type requestIDKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (h *handler) withRateLimit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" && !h.limiter.Allow() {
			h.log.WarnContext(r.Context(), "rate limited",
				slog.String("request_id", requestID(r.Context())),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", retryAfter(time.Duration(float64(time.Second)/float64(h.limiter.Limit()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type languagesResponse struct {
	Languages []string `json:"languages"`
	Model     string   `json:"model"`
}

func (h *handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, languagesResponse{
		Languages: dictfile.Languages(),
		Model:     h.seg.Language(),
	})
}

type textRequest struct {
	Text *string `json:"text"`
	K    int     `json:"k"`
}

type splitResponse struct {
	Words []string `json:"words"`
}

type candidatesResponse struct {
	Candidates []segment.Candidate `json:"candidates"`
}

type rejoinResponse struct {
	Text string `json:"text"`
}

func (h *handler) handleSplit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.serve(w, r, "split", *req.Text, 0, func() any {
		return splitResponse{Words: h.seg.Split(*req.Text)}
	})
}

func (h *handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	k := req.K
	if k == 0 {
		k = h.opts.defaultK
	}
	if k < 1 || k > MaxK {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("k must be between 1 and %d", MaxK))
		return
	}

	h.serve(w, r, "candidates", *req.Text, k, func() any {
		cands := h.seg.Candidates(*req.Text, k)
		if cands == nil {
			cands = []segment.Candidate{}
		}
		return candidatesResponse{Candidates: cands}
	})
}

func (h *handler) handleRejoin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.serve(w, r, "rejoin", *req.Text, 0, func() any {
		return rejoinResponse{Text: h.seg.Rejoin(*req.Text)}
	})
}

// decode validates the method and body shared by the segmentation endpoints.
func (h *handler) decode(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return textRequest{}, false
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return textRequest{}, false
	}

	// JSON escaping can expand text up to six times.
	body := http.MaxBytesReader(w, r.Body, int64(h.opts.maxTextBytes)*6+1024)

	var req textRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
			return textRequest{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return textRequest{}, false
	}

	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "text field is required")
		return textRequest{}, false
	}

	if len(*req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return textRequest{}, false
	}

	return req, true
}

// serve answers from the cache or runs compute on a worker slot under the
// request deadline.
func (h *handler) serve(w http.ResponseWriter, r *http.Request, op, text string, k int, compute func() any) {
	ctx := r.Context()
	key := cacheKey{op: op, k: k, text: text}
	start := time.Now()

	if h.cache != nil {
		if res, ok := h.cache.Get(key); ok {
			h.logDone(ctx, op, text, start, true)
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	// Acquire a worker slot, honouring context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
		case <-ctx.Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
	}

	if h.opts.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.requestTimeout)
		defer cancel()
	}

	// The slot is released when compute returns, not when the request gives
	// up, so abandoned work still counts against the worker limit.
	done := make(chan any, 1)
	go func() {
		if h.sem != nil {
			defer func() { <-h.sem }()
		}
		done <- compute()
	}()

	select {
	case res := <-done:
		if h.cache != nil {
			h.cache.Add(key, res)
		}
		h.logDone(ctx, op, text, start, false)
		writeJSON(w, http.StatusOK, res)
	case <-ctx.Done():
		h.log.WarnContext(ctx, "segmentation timed out",
			slog.String("request_id", requestID(ctx)),
			slog.String("op", op),
			slog.Int("text_len", len(text)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", ctx.Err().Error()),
		)
		writeError(w, http.StatusGatewayTimeout, "segmentation timed out")
	}
}

func (h *handler) logDone(ctx context.Context, op, text string, start time.Time, cached bool) {
	h.log.InfoContext(ctx, "segmentation complete",
		slog.String("request_id", requestID(ctx)),
		slog.String("op", op),
		slog.Int("text_len", len(text)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Bool("cached", cached),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	seg             Segmenter
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, seg Segmenter) *Server {
	return &Server{
		cfg:             cfg,
		seg:             seg,
		logger:          slog.Default(),
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger overrides the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

// Handler builds the HTTP handler from the server configuration.
func (s *Server) Handler() http.Handler {
	return NewHandler(s.seg,
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithCacheSize(s.cfg.Server.CacheSize),
		WithRateLimit(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst),
		WithDefaultK(s.cfg.Candidates.DefaultK),
		WithLogger(s.logger),
	)
}

func (s *Server) Start(ctx context.Context) error {
	if s.seg == nil {
		return errors.New("server: no language model")
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("listening",
		slog.String("addr", s.cfg.Server.ListenAddr),
		slog.String("language", s.seg.Language()),
		slog.Int("workers", s.cfg.Server.Workers),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks that a server answers GET /health at addr.
func ProbeHTTP(ctx context.Context, addr string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}

// retryAfter formats a Retry-After header value in whole seconds.
func retryAfter(d time.Duration) string {
	return strconv.Itoa(max(int(d.Round(time.Second)/time.Second), 1))
}
