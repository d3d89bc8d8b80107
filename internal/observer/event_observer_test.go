package observer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type panicObserver struct{}

func (panicObserver) OnEvent(context.Context, KernelEvent) {
	panic("boom")
}

func (panicObserver) GetObserverName() string {
	return "panic_observer"
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(KernelGenerated, "sobel")
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("Expected uuid event ID, got %q", e.ID)
	}
	if !e.Success {
		t.Error("Expected generated event to be successful")
	}
	if NewEvent(GenerationFailed, "sobel").Success {
		t.Error("Expected failure event not to be successful")
	}
	if NewEvent(KernelGenerated, "box").ID == e.ID {
		t.Error("Expected distinct event IDs")
	}
}

func TestMetricsObserver(t *testing.T) {
	ctx := context.Background()
	m := NewMetricsObserver()

	for _, kind := range []string{"box", "box", "sobel"} {
		e := NewEvent(KernelGenerated, kind)
		e.ProcessingTime = 2 * time.Millisecond
		m.OnEvent(ctx, e)
	}
	m.OnEvent(ctx, NewEvent(GenerationFailed, "gaussian"))
	m.OnEvent(ctx, NewEvent(KernelPublished, "box"))
	m.OnEvent(ctx, NewEvent(PublishFailed, "box"))

	metrics := m.GetMetrics()
	if metrics["kernels_generated"] != int64(3) {
		t.Errorf("Expected 3 generated, got %v", metrics["kernels_generated"])
	}
	if metrics["generation_failures"] != int64(1) {
		t.Errorf("Expected 1 failure, got %v", metrics["generation_failures"])
	}
	if metrics["kernels_published"] != int64(1) || metrics["publish_failures"] != int64(1) {
		t.Errorf("Unexpected publish counters %v", metrics)
	}
	perKind := metrics["generated_by_kind"].(map[string]int64)
	if perKind["box"] != 2 || perKind["sobel"] != 1 {
		t.Errorf("Unexpected per-kind counts %v", perKind)
	}
	if metrics["avg_processing_time"] != 2*time.Millisecond {
		t.Errorf("Expected 2ms average, got %v", metrics["avg_processing_time"])
	}
}

func TestEventPublisher_NotifyAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	p := NewEventPublisher()
	m := NewMetricsObserver()

	p.Subscribe(panicObserver{})
	p.Subscribe(m)
	p.NotifyObservers(ctx, NewEvent(KernelGenerated, "box"))

	if got := m.GetMetrics()["kernels_generated"]; got != int64(1) {
		t.Errorf("Expected event to reach observer after a panicking one, got %v", got)
	}

	p.Unsubscribe(m)
	p.NotifyObservers(ctx, NewEvent(KernelGenerated, "box"))
	if got := m.GetMetrics()["kernels_generated"]; got != int64(1) {
		t.Errorf("Expected no delivery after unsubscribe, got %v", got)
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)

	o := NewLoggingObserver(l)
	e := NewEvent(PublishFailed, "laplacian")
	e.ErrorMessage = "upload failed"
	e.Metadata = map[string]interface{}{"key": "laplacian/x.json"}
	o.OnEvent(context.Background(), e)

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"kind":"laplacian"`, `"error":"upload failed"`, `"key":"laplacian/x.json"`, e.ID} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %s, got %s", want, out)
		}
	}
	if o.GetObserverName() != "logging_observer" {
		t.Errorf("Unexpected observer name %s", o.GetObserverName())
	}
}
