// Package http exposes the analytics and export API.
package http

import (
	"context"
	"net/http"
	"sync"

	"trackmyfin/internal/amqp"
	"trackmyfin/internal/export"
	"trackmyfin/internal/log"
	"trackmyfin/internal/middleware/ratelimit"
	"trackmyfin/internal/middleware/security"
	"trackmyfin/internal/middleware/trace"
	"trackmyfin/internal/remote"
)

// DataProvider serves the current dataset for the configured user.
type DataProvider interface {
	Current(ctx context.Context) (remote.Dataset, error)
	Owner() string
}

// JobPublisher queues export jobs for asynchronous rendering.
type JobPublisher interface {
	PublishExportJob(ctx context.Context, msg *amqp.ExportJobMessage) error
}

type Server struct {
	http.Server

	data      DataProvider
	exporter  *export.Exporter
	publisher JobPublisher // nil disables the async export path

	limiter      *ratelimit.Limiter
	resolver     *security.Resolver
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, data DataProvider, exporter *export.Exporter, publisher JobPublisher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		data:      data,
		exporter:  exporter,
		publisher: publisher,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		resolver:  security.NewResolver(),
		logger:    logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /api/analytics/monthly", s.handleMonthlySeries)
	mux.HandleFunc("GET /api/analytics/categories", s.handleCategoryBreakdown)
	mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)
	mux.HandleFunc("GET /api/export/count", s.handleExportCount)
	mux.HandleFunc("POST /api/export", s.handleExport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.resolver.ClientIP)

	handler := log.Middleware(logger)(headers.Handler(tracer.Handler(mux)))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
