package server

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/airwavehq/airwave/internal/events"
)

func TestMatchTopicPattern(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"airwave.execution.queued", "airwave.execution.queued", true},
		{"airwave.execution.*", "airwave.execution.queued", true},
		{"airwave.execution.*", "airwave.execution.queued.extra", false},
		{"airwave.>", "airwave.execution.queued", true},
		{"airwave.>", "airwave", false},
		{"*.execution.queued", "airwave.execution.queued", true},
		{"airwave.brief.*", "airwave.execution.queued", false},
	}
	for _, tt := range tests {
		if got := matchTopicPattern(tt.pattern, tt.topic); got != tt.want {
			t.Errorf("matchTopicPattern(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
		}
	}
}

func TestSSEHub_BroadcastAndFilter(t *testing.T) {
	hub := newSSEHub()
	all := hub.subscribe(nil)
	execOnly := hub.subscribe([]string{"airwave.execution.*"})
	defer hub.unsubscribe(all)
	defer hub.unsubscribe(execOnly)

	hub.broadcast("airwave.execution.queued", []byte(`{"a":1}`))
	hub.broadcast("airwave.brief.created", []byte(`{"b":2}`))

	if len(all.ch) != 2 {
		t.Fatalf("unfiltered client got %d events", len(all.ch))
	}
	if len(execOnly.ch) != 1 {
		t.Fatalf("filtered client got %d events", len(execOnly.ch))
	}
	evt := <-execOnly.ch
	if evt.Topic != "airwave.execution.queued" {
		t.Fatalf("got topic %q", evt.Topic)
	}
}

func TestSSEHub_EventsSince(t *testing.T) {
	hub := newSSEHub()
	for i := range 5 {
		hub.broadcast("airwave.test", []byte(fmt.Sprintf(`{"n":%d}`, i)))
	}

	replayed := hub.eventsSince(2)
	if len(replayed) != 3 {
		t.Fatalf("got %d replayed events, want 3", len(replayed))
	}
	if replayed[0].ID != 3 {
		t.Fatalf("got first replayed ID %d", replayed[0].ID)
	}
}

func TestSSEHub_EventsSince_RingWraps(t *testing.T) {
	hub := newSSEHub()
	for range sseRingBufferSize + 10 {
		hub.broadcast("airwave.test", []byte(`{}`))
	}

	// ID 1 fell out of the ring; only the buffered tail comes back.
	replayed := hub.eventsSince(0)
	if len(replayed) != sseRingBufferSize {
		t.Fatalf("got %d replayed events, want %d", len(replayed), sseRingBufferSize)
	}
	if replayed[0].ID != 11 {
		t.Fatalf("got first replayed ID %d", replayed[0].ID)
	}
}

func TestSSEHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := newSSEHub()
	c := hub.subscribe(nil)
	defer hub.unsubscribe(c)

	// More events than the client buffer; broadcast must not block.
	done := make(chan struct{})
	go func() {
		for range 200 {
			hub.broadcast("airwave.test", []byte(`{}`))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on slow client")
	}
}

func TestEventStream_DeliversBroadcast(t *testing.T) {
	srv := NewAirwaveServer(newMockStore(), &events.NoopPublisher{}, Options{})
	ts := httptest.NewServer(srv.NewHTTPHandler(""))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events/stream?topics=airwave.execution.*", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("got content type %q", ct)
	}

	// Give the subscription a moment to register, then broadcast.
	go func() {
		time.Sleep(100 * time.Millisecond)
		srv.broadcastEvent("airwave.brief.created", map[string]string{"ignored": "yes"})
		srv.broadcastEvent("airwave.execution.queued", map[string]string{"execution_id": "ex-1"})
	}()

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimPrefix(line, "event:")
		}
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimPrefix(line, "data:")
			break
		}
	}

	if event != "airwave.execution.queued" {
		t.Fatalf("got event %q", event)
	}
	if !strings.Contains(data, "ex-1") {
		t.Fatalf("got data %q", data)
	}
}

func TestEventStream_LastEventIDReplay(t *testing.T) {
	srv := NewAirwaveServer(newMockStore(), &events.NoopPublisher{}, Options{})
	srv.broadcastEvent("airwave.brief.created", map[string]string{"n": "1"})
	srv.broadcastEvent("airwave.brief.created", map[string]string{"n": "2"})
	srv.broadcastEvent("airwave.brief.created", map[string]string{"n": "3"})

	ts := httptest.NewServer(srv.NewHTTPHandler(""))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Last-Event-ID", "1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	var ids []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "id:") {
			ids = append(ids, strings.TrimPrefix(line, "id:"))
			if len(ids) == 2 {
				break
			}
		}
	}

	if len(ids) != 2 || ids[0] != "2" || ids[1] != "3" {
		t.Fatalf("got replayed ids %v", ids)
	}
}
