// Package devserver serves a live preview of one compiled document. A
// polling watcher rebuilds when the source file changes and the served page
// reloads itself when the build id moves.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-rml/internal/config"
	"github.com/grindlemire/go-rml/pkg/rml"
)

type Server struct {
	config config.Config
	file   string
	server *http.Server

	mu    sync.RWMutex
	build buildState
}

// buildState is one watcher result. The id changes on every rebuild so the
// page's poller can tell a new build from a repeat of the last one.
type buildState struct {
	ID     string
	Output rml.Output
	Err    error
}

func NewServer(cfg config.Config, file string) *Server {
	s := &Server{
		config: cfg,
		file:   file,
		build:  buildState{ID: uuid.NewString()},
	}

	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())
	router.GET("/", s.page)
	router.GET("/output", s.output)
	router.GET("/build", s.status)

	s.server = &http.Server{
		Addr:              cfg.DevAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves and watches until ctx is done, then drains the listener.
func (s *Server) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().
			Str("address", s.server.Addr).
			Str("file", s.file).
			Msg("dev server listening")

		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return s.watch(ctx)
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("dev server shutting down")

		toCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(toCtx)
	})

	return group.Wait()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) page(ctx *gin.Context) {
	build := s.snapshot()

	node := previewPage(s.file, build)
	if build.Err != nil {
		node = diagnosticPage(build.Err)
	}

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := node.Render(ctx.Writer); err != nil {
		log.Error().Err(err).Msg("render preview page")
	}
}

func (s *Server) output(ctx *gin.Context) {
	build := s.snapshot()
	if build.Err != nil {
		var cerr *rml.Error
		if errors.As(build.Err, &cerr) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": cerr})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"message": build.Err.Error()},
		})
		return
	}
	ctx.JSON(http.StatusOK, build.Output)
}

func (s *Server) status(ctx *gin.Context) {
	build := s.snapshot()
	resp := gin.H{"id": build.ID, "ok": build.Err == nil}
	if build.Err != nil {
		resp["error"] = build.Err.Error()
	}
	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) snapshot() buildState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.build
}

func (s *Server) setBuild(out rml.Output, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.build = buildState{ID: uuid.NewString(), Output: out, Err: err}
}
