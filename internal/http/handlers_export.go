package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"trackmyfin/internal/amqp"
	"trackmyfin/internal/export"
	"trackmyfin/internal/log"
	"trackmyfin/internal/middleware/trace"
)

type exportRequestDTO struct {
	export.Request
	// Async queues the job for the worker instead of streaming the
	// artifact in the response.
	Async bool `json:"async"`
}

func (s *Server) handleExportCount(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid filter: %v", err))
		return
	}

	ds, err := s.data.Current(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load dataset", log.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, "financial data unavailable")
		return
	}

	count := s.exporter.Count(ds.Transactions, ds.Salaries, spec)
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := s.resolver.ClientIP(r)
	if !s.limiter.Allow(clientIP) {
		s.logger.WarnContext(ctx, "Rate limit exceeded",
			log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		return
	}

	var req exportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if !req.Fields.Any() {
		req.Fields = export.DefaultFieldSelection()
	}

	// Fetching through the provider also persists the snapshot the
	// worker will render from.
	ds, err := s.data.Current(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load dataset", log.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, "financial data unavailable")
		return
	}

	if req.Async {
		s.queueExport(w, r, req.Request)
		return
	}

	artifact, err := s.exporter.Export(ctx, ds.Transactions, ds.Salaries, req.Request)
	if errors.Is(err, export.ErrUnknownFormat) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Export failed",
			log.FieldFormat, req.Format, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Data)
}

func (s *Server) queueExport(w http.ResponseWriter, r *http.Request, req export.Request) {
	ctx := r.Context()

	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "async export is not configured")
		return
	}

	jobID := trace.GetRequestID(ctx)
	if jobID == "" {
		jobID = trace.GenerateRequestID()
	}

	msg := amqp.NewExportJobMessage(jobID, s.data.Owner(), req)
	if err := s.publisher.PublishExportJob(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to queue export job",
			log.FieldJobID, jobID, log.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, "failed to queue export job")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": "queued",
	})
}
