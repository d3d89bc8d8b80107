package observer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// KernelEvent represents a kernel generation or publishing event
type KernelEvent struct {
	ID             string                 `json:"id"`
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Kind           string                 `json:"kind"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of kernel event
type EventType string

const (
	// KernelGenerated when a kernel was built successfully
	KernelGenerated EventType = "kernel_generated"
	// GenerationFailed when parameters were rejected or building failed
	GenerationFailed EventType = "generation_failed"
	// KernelPublished when a kernel document was stored
	KernelPublished EventType = "kernel_published"
	// PublishFailed when storing a kernel document failed
	PublishFailed EventType = "publish_failed"
)

// NewEvent creates an event with a fresh ID and the current time
func NewEvent(eventType EventType, kind string) KernelEvent {
	return KernelEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		Kind:      kind,
		Success:   eventType == KernelGenerated || eventType == KernelPublished,
	}
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event KernelEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event KernelEvent)
}

// LoggingObserver logs kernel events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles kernel events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event KernelEvent) {
	fields := logrus.Fields{
		"event_id":        event.ID,
		"event_type":      event.EventType,
		"kind":            event.Kind,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case KernelGenerated:
		o.logger.WithFields(fields).Debug("Kernel generated")
	case GenerationFailed:
		o.logger.WithFields(fields).Warn("Kernel generation failed")
	case KernelPublished:
		o.logger.WithFields(fields).Info("Kernel published")
	case PublishFailed:
		o.logger.WithFields(fields).Error("Kernel publish failed")
	default:
		o.logger.WithFields(fields).Info("Kernel event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from kernel events
type MetricsObserver struct {
	mu                  sync.RWMutex
	generated           int64
	failed              int64
	published           int64
	publishFailed       int64
	perKind             map[string]int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{perKind: make(map[string]int64)}
}

// OnEvent handles kernel events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event KernelEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case KernelGenerated:
		o.generated++
		o.perKind[event.Kind]++
		o.totalProcessingTime += event.ProcessingTime
	case GenerationFailed:
		o.failed++
	case KernelPublished:
		o.published++
	case PublishFailed:
		o.publishFailed++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.generated > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.generated)
	}

	perKind := make(map[string]int64, len(o.perKind))
	for k, v := range o.perKind {
		perKind[k] = v
	}

	return map[string]interface{}{
		"kernels_generated":     o.generated,
		"generation_failures":   o.failed,
		"kernels_published":     o.published,
		"publish_failures":      o.publishFailed,
		"generated_by_kind":     perKind,
		"total_processing_time": o.totalProcessingTime,
		"avg_processing_time":   avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription
// order. Observers must not block; a panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event KernelEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		notify(ctx, observer, event)
	}
}

func notify(ctx context.Context, obs Observer, event KernelEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
