package pyimport

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importdeps/pkg/cache"
	"github.com/matzehuels/importdeps/pkg/module"
	"github.com/matzehuels/importdeps/pkg/observability"
)

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestCachedExtractor(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)

	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	if err := os.WriteFile(path, []byte("import os\nfrom . import sibling\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	x := NewCached(New(), fc, nil)
	want := []module.RawImport{{Name: "os"}, {Name: "sibling", Level: 1}}

	first, err := x.Extract(ctx, path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	second, err := x.Extract(ctx, path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !reflect.DeepEqual(first, want) || !reflect.DeepEqual(second, want) {
		t.Errorf("Extract() = %+v, %+v, want %+v", first, second, want)
	}
	if hooks.misses != 1 || hooks.hits != 1 || hooks.sets != 1 {
		t.Errorf("misses/hits/sets = %d/%d/%d, want 1/1/1", hooks.misses, hooks.hits, hooks.sets)
	}

	// Changing the content changes the key.
	if err := os.WriteFile(path, []byte("import sys\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := x.Extract(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []module.RawImport{{Name: "sys"}}) {
		t.Errorf("Extract() after edit = %+v, want [{Name:sys}]", got)
	}
	if hooks.misses != 2 {
		t.Errorf("misses = %d, want 2", hooks.misses)
	}
}

func TestCachedExtractorIgnoresCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	content := []byte("import os\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := cache.NewDefaultKeyer().ImportsKey(cache.Hash(content), Version)
	if err := fc.Set(ctx, key, []byte("not json"), time.Hour); err != nil {
		t.Fatal(err)
	}

	logger, buf := debugLogger()
	got, err := NewCached(nil, fc, nil).WithLogger(logger).Extract(ctx, path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !reflect.DeepEqual(got, []module.RawImport{{Name: "os"}}) {
		t.Errorf("Extract() = %+v, want [{Name:os}]", got)
	}
	if !strings.Contains(buf.String(), "discarding corrupt imports cache entry") {
		t.Errorf("log output %q should report the corrupt entry", buf.String())
	}
}

// brokenCache fails every operation.
type brokenCache struct{}

var errBroken = stderrors.New("cache unavailable")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errBroken
}
func (brokenCache) Delete(context.Context, string) error { return errBroken }
func (brokenCache) Close() error { return nil }

func debugLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}), &buf
}

func TestCachedExtractorLogsCacheFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.py")
	if err := os.WriteFile(path, []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, buf := debugLogger()
	got, err := NewCached(nil, brokenCache{}, nil).WithLogger(logger).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !reflect.DeepEqual(got, []module.RawImport{{Name: "os"}}) {
		t.Errorf("Extract() = %+v, want [{Name:os}]", got)
	}
	for _, want := range []string{"imports cache read failed", "imports cache write failed", "cache unavailable"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output %q should contain %q", buf.String(), want)
		}
	}
}

func TestCachedExtractorDoesNotCacheFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.py")
	if err := os.WriteFile(path, []byte("def broken(:\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	x := NewCached(nil, nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := x.Extract(context.Background(), path); err == nil {
			t.Fatalf("Extract() run %d should fail", i)
		}
	}
}
