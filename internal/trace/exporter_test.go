package trace

import (
	"context"
	"testing"
	"time"

	"turbineup/internal/launch"
	"turbineup/internal/progress"
)

func TestNewExporterDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	e, err := NewExporter(context.Background())
	if err != nil {
		t.Fatalf("NewExporter() error: %v", err)
	}
	if e != nil {
		t.Error("exporter should be nil when endpoint unset")
	}
}

func TestNilExporterIsNoOp(t *testing.T) {
	var e *Exporter

	rep := &launch.Report{
		Mode:     launch.ModeDeepSeekOnly,
		Started:  time.Now(),
		Finished: time.Now(),
		Steps: []launch.StepResult{
			{Name: "check python interpreter", Status: progress.StatusOK},
		},
	}
	if err := e.ExportReport(context.Background(), rep); err != nil {
		t.Errorf("ExportReport() on nil exporter: %v", err)
	}
	if err := e.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on nil exporter: %v", err)
	}
}
