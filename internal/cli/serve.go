package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/engine"
	tcerrors "github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/httputil"
	"github.com/matzehuels/tagcloud/pkg/motion"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// instanceHeader carries the engine ID on every response.
const instanceHeader = "X-Tagcloud-Instance"

// maxTicksPerRequest bounds POST /tick.
const maxTicksPerRequest = 600

// resourceTTL is how long downloaded tag images stay cached.
const resourceTTL = 24 * time.Hour

// server exposes one engine over HTTP. The engine is not safe for concurrent
// use, so every handler holds mu while it touches it.
type server struct {
	mu     sync.Mutex
	engine *engine.Engine
	queue  *frame.Queue
	images *sink.Images

	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	bg     string
	logger *log.Logger
}

type serverOpts struct {
	engine     engine.Options
	cache      cache.Cache
	ttl        time.Duration
	background string
	logger     *log.Logger
}

func newServer(opts serverOpts) *server {
	s := &server{
		queue:  frame.NewQueue(),
		cache:  opts.cache,
		ttl:    opts.ttl,
		bg:     opts.background,
		logger: opts.logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.bg == "" {
		s.bg = sink.DefaultBackground
	}
	fetcher := httputil.NewFetcher(httputil.WithCache(cache.Instrument(s.cache, "resource"), resourceTTL))
	s.images = sink.NewImages(sink.WithLoader(sink.NewLoader(fetcher)))
	eo := opts.engine
	eo.Scheduler = s.queue
	eo.Logger = s.logger
	s.engine = engine.New(eo)
	s.keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), "instance:"+s.engine.ID()+":")
	s.cache = cache.Instrument(s.cache, "frame")
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/frame.{format}", s.handleFrame)
	r.Get("/state", s.handleState)

	r.Get("/tags", s.handleTags)
	r.Post("/tags", s.handleAddTag)
	r.Put("/tags", s.handleSetTags)
	r.Delete("/tags", s.handleClearTags)
	r.Patch("/tags/{index}", s.handleUpdateTag)
	r.Delete("/tags/{index}", s.handleRemoveTag)

	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Post("/pause", s.handlePause)
	r.Post("/resume", s.handleResume)
	r.Post("/tick", s.handleTick)
	r.Post("/click", s.handleClick)

	r.Get("/options", s.handleOptions)
	r.Patch("/options", s.handleUpdateOptions)
	return r
}

// observe tags responses with the instance ID, logs them and reports them to
// the HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		w.Header().Set(instanceHeader, s.engine.ID())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "elapsed", elapsed)
	})
}

// snapshot copies the current frame so it can be encoded without the lock.
func (s *server) snapshot() *projection.Frame {
	f := s.engine.Frame()
	if f == nil {
		return &projection.Frame{Viewport: s.engine.Viewport()}
	}
	out := *f
	out.Items = slices.Clone(f.Items)
	return &out
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format == "json" {
		s.mu.Lock()
		data, err := sink.RenderJSON(s.snapshot(),
			sink.WithJSONInstance(s.engine.ID()),
			sink.WithJSONState(s.engine.State()),
			sink.WithJSONSettings(s.engine.Settings()),
		)
		s.mu.Unlock()
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}
	if format != "svg" && format != "png" {
		writeError(w, tcerrors.New(tcerrors.ErrCodeInvalidFormat, "unknown frame format %q", format))
		return
	}

	scale := 1.0
	if raw := r.URL.Query().Get("scale"); raw != "" && format == "png" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 4 {
			writeError(w, tcerrors.New(tcerrors.ErrCodeInvalidInput, "scale must be in (0, 4]"))
			return
		}
		scale = v
	}

	s.mu.Lock()
	f := s.snapshot()
	font := s.engine.Settings().CustomFont
	s.mu.Unlock()

	data, cached, err := s.render(r.Context(), f, format, scale, font)
	if err != nil {
		writeError(w, err)
		return
	}
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	if format == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	_, _ = w.Write(data)
}

// render encodes f, reusing a cached encoding of an identical frame.
func (s *server) render(ctx context.Context, f *projection.Frame, format string, scale float64, font string) ([]byte, bool, error) {
	snap, err := sink.RenderJSON(f)
	if err != nil {
		return nil, false, err
	}
	key := s.keyer.FrameKey(cache.Hash(snap), cache.FrameKeyOpts{Format: format, Scale: scale, Background: s.bg})
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache read failed", "error", err)
	} else if ok {
		return data, true, nil
	}

	var data []byte
	if format == "svg" {
		opts := []sink.SVGOption{sink.WithBackground(s.bg), sink.WithInteraction()}
		if font != "" {
			opts = append(opts, sink.WithFontFamily(font))
		}
		data = sink.RenderSVG(f, opts...)
	} else {
		data, err = sink.RenderPNG(f,
			sink.WithScale(scale),
			sink.WithPNGCanvasOptions(sink.WithCanvasBackground(s.bg), sink.WithImages(s.images)),
		)
		if err != nil {
			return nil, false, err
		}
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
	return data, false, nil
}

type stateResponse struct {
	Instance string       `json:"instance"`
	Paused   bool         `json:"paused"`
	CanUndo  bool         `json:"canUndo"`
	CanRedo  bool         `json:"canRedo"`
	Tags     int          `json:"tags"`
	Frames   uint64       `json:"frames"`
	Motion   motion.State `json:"motion"`
	Hovered  *int         `json:"hovered,omitempty"`
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := stateResponse{
		Instance: s.engine.ID(),
		Paused:   s.engine.Paused(),
		CanUndo:  s.engine.CanUndo(),
		CanRedo:  s.engine.CanRedo(),
		Tags:     len(s.engine.Tags()),
		Frames:   s.queue.Frames(),
		Motion:   s.engine.State(),
	}
	if i, ok := s.engine.Hovered(); ok {
		resp.Hovered = &i
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.engine.Tags())
}

func (s *server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var t tags.Tag
	if !decodeBody(w, r, &t) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.AddTag(t); err != nil {
		writeError(w, err)
		return
	}
	list := s.engine.Tags()
	writeJSON(w, http.StatusCreated, list[len(list)-1])
}

func (s *server) handleSetTags(w http.ResponseWriter, r *http.Request) {
	var list []tags.Tag
	if !decodeBody(w, r, &list) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.SetTags(list); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Tags())
}

func (s *server) handleClearTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.ClearTags(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	var p tags.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.UpdateTag(i, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Tags()[i])
}

func (s *server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.RemoveTag(i); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type historyResponse struct {
	Kind  string     `json:"kind"`
	Index int        `json:"index"`
	Tags  []tags.Tag `json:"tags"`
}

func (s *server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.history(w, s.engine.Undo)
}

func (s *server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.history(w, s.engine.Redo)
}

func (s *server) history(w http.ResponseWriter, step func() (tags.Command, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, err := step()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Kind: cmd.Kind.String(), Index: cmd.Index, Tags: s.engine.Tags()})
}

func (s *server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, s.engine.Pause)
}

func (s *server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, s.engine.Resume)
}

func (s *server) toggle(w http.ResponseWriter, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": s.engine.Paused()})
}

func (s *server) handleTick(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTicksPerRequest {
			writeError(w, tcerrors.New(tcerrors.ErrCodeInvalidInput, "n must be in [1, %d]", maxTicksPerRequest))
			return
		}
		n = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.queue.Flush()
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"frames": s.queue.Frames()})
}

type clickResponse struct {
	Hit *tags.Tag `json:"hit"`
}

func (s *server) handleClick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, tcerrors.New(tcerrors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var resp clickResponse
	if t, ok := s.engine.HitTest(x, y); ok {
		resp.Hit = &t
	}
	s.engine.Click(x, y)
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.engine.Settings())
}

type optionsResponse struct {
	Settings    any      `json:"settings"`
	Diagnostics []string `json:"diagnostics"`
}

func (s *server) handleUpdateOptions(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if !decodeBody(w, r, &raw) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	diags := s.engine.UpdateOptionsMap(raw)
	resp := optionsResponse{Settings: s.engine.Settings(), Diagnostics: []string{}}
	for _, d := range diags {
		resp.Diagnostics = append(resp.Diagnostics, d.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// run flushes one frame per tick of a wall-clock ticker until ctx ends.
func (s *server) run(ctx context.Context, fps int) {
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			s.queue.Flush()
			s.mu.Unlock()
		}
	}
}

func (s *server) close() {
	s.mu.Lock()
	s.engine.Destroy()
	s.mu.Unlock()
	s.images.Wait()
	_ = s.cache.Close()
}

// =============================================================================
// Helpers
// =============================================================================

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, tcerrors.New(tcerrors.ErrCodeInvalidInput, "index must be an integer"))
		return 0, false
	}
	return i, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, tcerrors.Wrap(tcerrors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := tcerrors.GetCode(err)
	if code == "" {
		code = tcerrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: string(code), Message: err.Error()})
}

func statusFor(code tcerrors.Code) int {
	switch code {
	case tcerrors.ErrCodeInvalidInput, tcerrors.ErrCodeInvalidOption, tcerrors.ErrCodeInvalidTag,
		tcerrors.ErrCodeInvalidEvent, tcerrors.ErrCodeInvalidShape, tcerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case tcerrors.ErrCodeIndexOutOfRange, tcerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case tcerrors.ErrCodeNothingToUndo, tcerrors.ErrCodeNothingToRedo:
		return http.StatusConflict
	case tcerrors.ErrCodeDestroyed:
		return http.StatusGone
	case tcerrors.ErrCodeNotReady:
		return http.StatusServiceUnavailable
	case tcerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// serveCommand runs the HTTP preview.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cloud      cloudFlags
		addr       string
		fps        int
		background string
		cacheKind  string
		redisAddr  string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live cloud over HTTP",
		Long: `Serve a live cloud over HTTP.

  GET    /frame.svg, /frame.png?scale=2, /frame.json
  GET    /state, /tags, /options
  POST   /tags            add a tag        PUT /tags   replace all tags
  PATCH  /tags/{index}    update a tag     DELETE /tags/{index}
  POST   /undo, /redo, /pause, /resume, /tick?n=10, /click?x=&y=
  PATCH  /options         partial settings update`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			s, list, diags, err := cloud.load(cmd)
			if err != nil {
				return err
			}
			reportDiagnostics(diags)

			store, err := openCache(ctx, cacheKind, redisAddr)
			if err != nil {
				return err
			}
			srv := newServer(serverOpts{
				engine: engine.Options{
					Settings: s,
					Tags:     list,
					Viewport: projection.Viewport{Width: cloud.width, Height: cloud.height},
					Context:  ctx,
				},
				cache:      store,
				ttl:        ttl,
				background: background,
				logger:     logger,
			})
			defer srv.close()
			if fps > 0 {
				go srv.run(ctx, fps)
			}

			hs := &http.Server{Addr: addr, Handler: srv.routes(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = hs.Shutdown(shutdown)
			}()

			printSuccess("Serving cloud %s", srv.engine.ID())
			printKeyValue("Address", "http://"+addr)
			printKeyValue("Cache", cacheKind)
			printKeyValue("Version", buildinfo.String())
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cloud.register(cmd, defaultWidth, defaultHeight)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().IntVar(&fps, "fps", 0, "advance frames on a timer (0: only on POST /tick)")
	cmd.Flags().StringVar(&background, "background", sink.DefaultBackground, "background color")
	cmd.Flags().StringVar(&cacheKind, "cache", "file", "frame cache: none, file, redis")
	cmd.Flags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis address for --cache redis")
	cmd.Flags().DurationVar(&ttl, "cache-ttl", time.Hour, "frame cache entry lifetime")
	return cmd
}

func openCache(ctx context.Context, kind, redisAddr string) (cache.Cache, error) {
	switch kind {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, Prefix: appName + ":"})
	}
	return nil, errors.New("invalid cache: " + kind + " (must be 'none', 'file', or 'redis')")
}
