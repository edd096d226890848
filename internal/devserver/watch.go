package devserver

import (
	"context"
	"crypto/sha256"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/grindlemire/go-rml/pkg/rml"
)

// watch polls the source file and rebuilds whenever its contents change.
// Polling instead of a platform watcher keeps the loop portable; the
// interval is short enough for interactive editing.
func (s *Server) watch(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	var lastHash [32]byte
	var have bool

	for {
		src, err := os.ReadFile(s.file)
		if err != nil {
			log.Warn().Err(err).Str("file", s.file).Msg("read source")
		} else if hash := sha256.Sum256(src); !have || hash != lastHash {
			lastHash = hash
			have = true
			s.rebuild(string(src))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Server) rebuild(source string) {
	start := time.Now()
	out, err := rml.Compile(s.file, source)
	s.setBuild(out, err)
	if err != nil {
		log.Error().Err(err).Msg("build failed")
		return
	}
	log.Info().Str("file", s.file).Dur("elapsed", time.Since(start)).Msg("build ok")
}
