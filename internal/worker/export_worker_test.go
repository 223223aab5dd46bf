package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmyfin/internal/amqp"
	"trackmyfin/internal/core"
	"trackmyfin/internal/export"
	"trackmyfin/internal/export/plain"
	"trackmyfin/internal/remote"
	"trackmyfin/internal/storage"
)

type stubSnapshots struct {
	ds  remote.Dataset
	err error
}

func (s *stubSnapshots) LoadDataset(ctx context.Context, owner string) (remote.Dataset, error) {
	return s.ds, s.err
}

type failingRenderer struct{}

func (failingRenderer) Render(ctx context.Context, doc export.Document) ([]byte, error) {
	return nil, errors.New("render exploded")
}
func (failingRenderer) Extension() string   { return "bin" }
func (failingRenderer) ContentType() string { return "application/octet-stream" }

type recordingMirror struct {
	docs []export.Document
	err  error
}

func (m *recordingMirror) Append(ctx context.Context, doc export.Document) error {
	if m.err != nil {
		return m.err
	}
	m.docs = append(m.docs, doc)
	return nil
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func testSnapshot(t *testing.T) remote.Dataset {
	return remote.Dataset{
		Transactions: []core.Transaction{
			{ID: 1, Amount: core.Money{Cents: 250000}, Description: "Rent",
				Type: core.Expense, CategoryName: "Housing", Date: mustDate(t, "2025-03-01")},
		},
		Salaries: []core.Salary{
			{ID: 1, Amount: core.Money{Cents: 500000}, Date: mustDate(t, "2025-03-05"), Description: "March"},
		},
	}
}

func csvExporter() *export.Exporter {
	return export.NewExporter("₹", map[string]export.Renderer{
		export.FormatCSV: plain.New(),
	}, plain.New())
}

func jobMessage(format string) *amqp.ExportJobMessage {
	return amqp.NewExportJobMessage("job-1", "abcd1234", export.Request{
		Format: format,
		Fields: export.DefaultFieldSelection(),
	})
}

func TestHandleExportJobWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	w := NewExportWorker(&stubSnapshots{ds: testSnapshot(t)}, csvExporter(), dir, nil, nil)

	if err := w.HandleExportJob(context.Background(), jobMessage(export.FormatCSV)); err != nil {
		t.Fatalf("HandleExportJob: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "job-1_TrackMyFin_Transactions_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("unexpected artifact name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Salary: March") {
		t.Errorf("artifact should contain merged salary row, got:\n%s", data)
	}
}

func TestHandleExportJobMissingSnapshotIsUnrecoverable(t *testing.T) {
	w := NewExportWorker(&stubSnapshots{err: storage.ErrNoSnapshot}, csvExporter(), t.TempDir(), nil, nil)

	err := w.HandleExportJob(context.Background(), jobMessage(export.FormatCSV))
	if !errors.Is(err, amqp.ErrUnrecoverable) {
		t.Fatalf("expected ErrUnrecoverable, got %v", err)
	}
}

func TestHandleExportJobSnapshotLoadErrorIsRetryable(t *testing.T) {
	w := NewExportWorker(&stubSnapshots{err: errors.New("disk error")}, csvExporter(), t.TempDir(), nil, nil)

	err := w.HandleExportJob(context.Background(), jobMessage(export.FormatCSV))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, amqp.ErrUnrecoverable) {
		t.Fatal("transient storage errors should stay retryable")
	}
}

func TestHandleExportJobRenderFailureIsUnrecoverable(t *testing.T) {
	exporter := export.NewExporter("₹", map[string]export.Renderer{
		"bin": failingRenderer{},
	}, failingRenderer{})
	w := NewExportWorker(&stubSnapshots{ds: testSnapshot(t)}, exporter, t.TempDir(), nil, nil)

	err := w.HandleExportJob(context.Background(), jobMessage("bin"))
	if !errors.Is(err, amqp.ErrUnrecoverable) {
		t.Fatalf("expected ErrUnrecoverable, got %v", err)
	}
}

func TestHandleExportJobMirrorsDocument(t *testing.T) {
	mirror := &recordingMirror{}
	w := NewExportWorker(&stubSnapshots{ds: testSnapshot(t)}, csvExporter(), t.TempDir(), mirror, nil)

	if err := w.HandleExportJob(context.Background(), jobMessage(export.FormatCSV)); err != nil {
		t.Fatalf("HandleExportJob: %v", err)
	}
	if len(mirror.docs) != 1 {
		t.Fatalf("mirror received %d documents, want 1", len(mirror.docs))
	}
}

func TestHandleExportJobMirrorFailureIsNotFatal(t *testing.T) {
	mirror := &recordingMirror{err: errors.New("sheets quota")}
	w := NewExportWorker(&stubSnapshots{ds: testSnapshot(t)}, csvExporter(), t.TempDir(), mirror, nil)

	if err := w.HandleExportJob(context.Background(), jobMessage(export.FormatCSV)); err != nil {
		t.Fatalf("mirror failure should not fail the job, got %v", err)
	}
}
