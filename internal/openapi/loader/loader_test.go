package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
)

const payload = `openapi: 3.0.0`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := New(pkgopenapi.LoaderOptions{}).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload || doc.Location() != path {
		t.Fatalf("unexpected document %q from %q", doc.Raw(), doc.Location())
	}
}

func TestLoad_FS(t *testing.T) {
	files := fstest.MapFS{"specs/api.yaml": {Data: []byte(payload)}}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := New(pkgopenapi.LoaderOptions{}).Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoad_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	offline := New(pkgopenapi.NewLoaderOptions())
	if _, err := offline.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	online := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	doc, err := online.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = online.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL+"/missing"))
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := fstest.MapFS{"api.yaml": {Data: []byte(payload)}}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFS("api.yaml")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestLoad_NilSource(t *testing.T) {
	if _, err := New(pkgopenapi.LoaderOptions{}).Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
