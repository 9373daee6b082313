package integration_tests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nzambello/ploneview/cmd"
	"github.com/nzambello/ploneview/pkg/livereload"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/urfave/cli/v3"
)

// newMockPlone serves a single document and an empty navigation tree.
func newMockPlone(t *testing.T) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Plone/en/about":
			fmt.Fprintf(w, `{"@id": "%s/Plone/en/about", "@type": "Document", "title": "About us", "description": "Who we are"}`, ts.URL)
		case "/Plone/en/@navigation":
			w.Write([]byte(`{"items": []}`))
		default:
			http.Error(w, `{"type": "NotFound"}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// syncBuffer collects log output written by server goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func writeServeConfig(t *testing.T, path, title, apiURL string, port int) {
	t.Helper()
	cfg := fmt.Sprintf(`
site_title = %q
api_path = %q
public_url = "http://localhost:3000"
is_multilingual = true
supported_languages = ["en", "it"]
default_language = "en"

[server]
host = "127.0.0.1"
port = %d
`, title, apiURL, port)
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, fn func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

func fetchBody(url string) (int, string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b), err
}

// TestServeDevReload runs the serve command end to end: pages come from the
// mock backend and rewriting the configuration swaps the site and notifies
// live reload clients.
func TestServeDevReload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Setenv("PLONE_RESTAPI_URL", "")
	t.Setenv("PLONE_INTERNAL_RESTAPI_URL", "")
	t.Setenv("PUBLIC_URL", "")

	plone := newMockPlone(t)
	port := freePort(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeServeConfig(t, cfgPath, "First", plone.URL+"/Plone", port)

	app := &cli.Command{
		Name:  "ploneview-test",
		Usage: "test harness",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: cfgPath,
			},
		},
		Commands: []*cli.Command{
			cmd.ServeCommand(),
		},
	}

	var logs syncBuffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var runErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.Run(ctx, []string{"ploneview-test", "--config", cfgPath, "serve", "--dev"})
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	up := waitFor(t, 5*time.Second, func() bool {
		code, _, err := fetchBody(base + "/health")
		return err == nil && code == http.StatusOK
	})
	if !up {
		t.Fatalf("server did not start\nLogs:\n%s", logs.String())
	}

	code, body, err := fetchBody(base + "/en/about")
	if err != nil || code != http.StatusOK {
		t.Fatalf("GET /en/about: %d %v\nLogs:\n%s", code, err, logs.String())
	}
	if !strings.Contains(body, "<title>About us - First</title>") {
		t.Fatalf("unexpected page:\n%s", body)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://127.0.0.1:"+fmt.Sprint(port)+livereload.Path, nil)
	if err != nil {
		t.Fatalf("dialing live reload: %v", err)
	}
	defer conn.Close()

	var hello livereload.Event
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != livereload.TypeHello {
		t.Fatalf("expected hello, got %+v (%v)", hello, err)
	}

	writeServeConfig(t, cfgPath, "Second", plone.URL+"/Plone", port)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev livereload.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("waiting for reload: %v\nLogs:\n%s", err, logs.String())
	}
	if ev.Type != livereload.TypeReload {
		t.Fatalf("expected a reload event, got %+v", ev)
	}

	_, body, err = fetchBody(base + "/en/about")
	if err != nil {
		t.Fatalf("GET after reload: %v", err)
	}
	if !strings.Contains(body, "<title>About us - Second</title>") {
		t.Errorf("site not reloaded:\n%s", body)
	}

	cancel()
	wg.Wait()
	if runErr != nil {
		t.Fatalf("serve returned error: %v\nLogs:\n%s", runErr, logs.String())
	}
}
