// Package ioserve exposes scoring, recommendation and plant lookup
// over HTTP. Request state is assembled once before the listener
// starts and shared read-only; picking up freshly built artifacts
// means restarting the server.
package ioserve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/permaguild/guilddb/internal/ioartifact"
	"github.com/permaguild/guilddb/internal/ioplants"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/recommend"
	"github.com/permaguild/guilddb/pkg/score"
)

// shutdownTimeout bounds the drain of in-flight requests after the
// serve context is canceled.
const shutdownTimeout = 10 * time.Second

// Handles is everything a request needs: the plant store backed by
// the connection pool, a scorer built over the full enemy web, and
// the embedding with its distance oracle.
type Handles struct {
	Store     ioplants.Store
	Scorer    *score.Scorer
	Embedding *artifact.Embedding
	Oracle    *recommend.EmbeddingOracle
}

// LoadHandles assembles the shared request state. The enemy web and
// the embedding are loaded eagerly, so a broken setup fails here
// instead of on the first request.
func LoadHandles(
	ctx context.Context,
	op db.Operator,
	cfg *config.Config,
) (*Handles, error) {
	pool := op.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	store := ioplants.New(op)
	web, err := store.Web(ctx)
	if err != nil {
		return nil, HandleError("the natural-enemy web", err)
	}

	emb, err := ioartifact.LoadEmbedding(cfg.HomeDir)
	if err != nil {
		return nil, err
	}

	slog.Info("Serve handles loaded",
		"embeddedPlants", emb.N(),
		"dims", emb.Dims(),
	)
	return &Handles{
		Store:     store,
		Scorer:    score.NewScorer(web),
		Embedding: emb,
		Oracle:    recommend.NewEmbeddingOracle(emb),
	}, nil
}

// Server owns the HTTP listener around the loaded handles.
type Server struct {
	srv *http.Server
}

// NewServer wires the router and the listener for the configured
// port.
func NewServer(h *Handles, port int) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(h),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is canceled, then drains in-flight requests
// for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("API server listening", "addr", s.srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), shutdownTimeout,
		)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("API server shutdown was not clean", "error", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return StartError(err)
	}
}
