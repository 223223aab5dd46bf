// Package worker renders queued export jobs and writes the artifacts
// to disk. Snapshots are persisted by the API server before a job is
// published, so the worker never calls the upstream API.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"trackmyfin/internal/amqp"
	"trackmyfin/internal/export"
	"trackmyfin/internal/log"
	"trackmyfin/internal/remote"
	"trackmyfin/internal/storage"
)

// SnapshotLoader loads a user's persisted dataset.
type SnapshotLoader interface {
	LoadDataset(ctx context.Context, owner string) (remote.Dataset, error)
}

// SheetMirror appends a rendered document to an external spreadsheet.
type SheetMirror interface {
	Append(ctx context.Context, doc export.Document) error
}

// ExportWorker handles export job messages from AMQP.
type ExportWorker struct {
	snapshots SnapshotLoader
	exporter  *export.Exporter
	exportDir string
	mirror    SheetMirror
	logger    *log.Logger
}

func NewExportWorker(snapshots SnapshotLoader, exporter *export.Exporter, exportDir string, mirror SheetMirror, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		snapshots: snapshots,
		exporter:  exporter,
		exportDir: exportDir,
		mirror:    mirror,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleExportJob processes a single export job message.
func (w *ExportWorker) HandleExportJob(ctx context.Context, msg *amqp.ExportJobMessage) error {
	w.logger.InfoContext(ctx, "Processing export job",
		log.FieldJobID, msg.JobID,
		log.FieldOwner, msg.Owner,
		log.FieldFormat, msg.Request.Format)

	ds, err := w.snapshots.LoadDataset(ctx, msg.Owner)
	if errors.Is(err, storage.ErrNoSnapshot) {
		// The server snapshots before publishing, so a missing snapshot
		// will not appear on redelivery either.
		return fmt.Errorf("%w: no snapshot for owner %s", amqp.ErrUnrecoverable, msg.Owner)
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	artifact, err := w.exporter.Export(ctx, ds.Transactions, ds.Salaries, msg.Request)
	if err != nil {
		// Rendering is deterministic over the snapshot; retrying the
		// same job would fail the same way.
		return fmt.Errorf("%w: %v", amqp.ErrUnrecoverable, err)
	}

	path, err := w.writeArtifact(msg.JobID, artifact)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	w.logger.InfoContext(ctx, "Export artifact written",
		log.FieldJobID, msg.JobID,
		log.FieldOwner, msg.Owner,
		log.FieldFilename, path,
		"bytes", len(artifact.Data))

	if w.mirror != nil {
		doc := w.exporter.BuildDocument(ds.Transactions, ds.Salaries, msg.Request)
		if err := w.mirror.Append(ctx, doc); err != nil {
			w.logger.WarnContext(ctx, "Failed to mirror export to spreadsheet",
				log.FieldJobID, msg.JobID,
				log.FieldError, err.Error())
		}
	}

	return nil
}

// writeArtifact stores the artifact under the export directory, prefixed
// with the job ID so repeated jobs over the same range don't collide.
func (w *ExportWorker) writeArtifact(jobID string, artifact export.Artifact) (string, error) {
	if err := os.MkdirAll(w.exportDir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(w.exportDir, jobID+"_"+artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}
