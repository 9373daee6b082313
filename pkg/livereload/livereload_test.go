package livereload

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(1)
	id1, ch1 := hub.Register()
	_, ch2 := hub.Register()
	if hub.Size() != 2 {
		t.Fatalf("Size() = %d", hub.Size())
	}

	hub.Broadcast(ReloadEvent("first"))
	// ch1 and ch2 are full now; this one is dropped.
	hub.Broadcast(ReloadEvent("second"))

	for _, ch := range []<-chan Event{ch1, ch2} {
		e := <-ch
		if e.Type != TypeReload || e.Reason != "first" {
			t.Errorf("unexpected event %+v", e)
		}
		select {
		case e := <-ch:
			t.Errorf("expected the second event to be dropped, got %+v", e)
		default:
		}
	}

	hub.Unregister(id1)
	hub.Unregister(id1)
	if _, ok := <-ch1; ok {
		t.Errorf("channel not closed after Unregister")
	}
	hub.Close()
	if hub.Size() != 0 {
		t.Errorf("Size() after Close = %d", hub.Size())
	}
	if _, ok := <-ch2; ok {
		t.Errorf("channel not closed after Close")
	}
}

func TestHandlerPushesEvents(t *testing.T) {
	hub := NewHub(0)
	ts := httptest.NewServer(NewHandler(hub))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Event
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != TypeHello {
		t.Fatalf("expected hello, got %+v", hello)
	}

	hub.Broadcast(ReloadEvent("config.toml changed"))
	var e Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if e.Type != TypeReload || e.Reason != "config.toml changed" {
		t.Errorf("unexpected event %+v", e)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Size() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Size() != 0 {
		t.Errorf("listener not released after disconnect")
	}
}

func TestHandlerRejectsPlainHTTP(t *testing.T) {
	hub := NewHub(0)
	rec := httptest.NewRecorder()
	NewHandler(hub).ServeHTTP(rec, httptest.NewRequest("GET", Path, nil))
	if rec.Code < 400 {
		t.Errorf("status = %d", rec.Code)
	}
	if hub.Size() != 0 {
		t.Errorf("a failed upgrade registered a listener")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a = 1"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed := make(chan string, 4)
	w := NewWatcher(path, func(p string) { changed <- p })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	}()

	// Unrelated files in the same directory are ignored.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case p := <-changed:
			if filepath.Base(p) != "config.toml" {
				t.Fatalf("unexpected path %s", p)
			}
			return
		case <-tick.C:
			// The watcher may not be registered yet; keep touching the file.
			os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
			os.WriteFile(path, []byte("a = 2"), 0644)
		case <-deadline:
			t.Fatalf("no change notification")
		}
	}
}
