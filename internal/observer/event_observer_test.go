package observer

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsObserver_CollectsCounts(t *testing.T) {
	metrics := NewMetricsObserver()
	ctx := context.Background()

	metrics.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted})
	metrics.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted})
	metrics.OnEvent(ctx, ExtractionEvent{
		EventType:      ExtractionCompleted,
		ProcessingTime: 100 * time.Millisecond,
	})
	metrics.OnEvent(ctx, ExtractionEvent{EventType: ExtractionFailed})
	metrics.OnEvent(ctx, ExtractionEvent{
		EventType: AnalysisCompleted,
		Metadata:  map[string]interface{}{"analysis_skipped": true},
	})
	metrics.OnEvent(ctx, ExtractionEvent{
		EventType: AnalysisCompleted,
		Metadata:  map[string]interface{}{"analysis_skipped": false},
	})

	got := metrics.GetMetrics()
	if got["total_extractions"] != int64(2) {
		t.Errorf("Expected 2 total extractions, got %v", got["total_extractions"])
	}
	if got["successful_extractions"] != int64(1) {
		t.Errorf("Expected 1 successful extraction, got %v", got["successful_extractions"])
	}
	if got["failed_extractions"] != int64(1) {
		t.Errorf("Expected 1 failed extraction, got %v", got["failed_extractions"])
	}
	if got["analyses_skipped"] != int64(1) {
		t.Errorf("Expected 1 skipped analysis, got %v", got["analyses_skipped"])
	}
	if got["avg_processing_time"] != 100*time.Millisecond {
		t.Errorf("Unexpected average processing time %v", got["avg_processing_time"])
	}
}

type waitingObserver struct {
	wg     *sync.WaitGroup
	mu     sync.Mutex
	events []ExtractionEvent
}

func (o *waitingObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	o.mu.Lock()
	o.events = append(o.events, event)
	o.mu.Unlock()
	o.wg.Done()
}

func (o *waitingObserver) GetObserverName() string { return "waiting_observer" }

func TestEventPublisher_NotifiesAllObservers(t *testing.T) {
	publisher := NewEventPublisher()

	var wg sync.WaitGroup
	first := &waitingObserver{wg: &wg}
	second := &waitingObserver{wg: &wg}
	publisher.Subscribe(first)
	publisher.Subscribe(second)

	wg.Add(2)
	publisher.NotifyObservers(context.Background(), ExtractionEvent{EventType: OCRCompleted})
	wg.Wait()

	for _, obs := range []*waitingObserver{first, second} {
		if len(obs.events) != 1 || obs.events[0].EventType != OCRCompleted {
			t.Errorf("Observer %s did not receive the event", obs.GetObserverName())
		}
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher()

	var wg sync.WaitGroup
	kept := &waitingObserver{wg: &wg}
	publisher.Subscribe(kept)

	removed := NewMetricsObserver()
	publisher.Subscribe(removed)
	publisher.Unsubscribe(removed)

	wg.Add(1)
	publisher.NotifyObservers(context.Background(), ExtractionEvent{EventType: ExtractionStarted})
	wg.Wait()

	if got := removed.GetMetrics()["total_extractions"]; got != int64(0) {
		t.Errorf("Expected unsubscribed observer to receive nothing, got %v", got)
	}
}
