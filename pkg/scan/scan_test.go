package scan

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/importdeps/pkg/errors"
)

func tree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestWalk(t *testing.T) {
	root := tree(t,
		"app.py",
		"README.md",
		"pkg/__init__.py",
		"pkg/mod.py",
		"pkg/__pycache__/mod.cpython-312.py",
		".venv/lib/site.py",
		"tests/test_mod.py",
		"gen/api_pb2.py",
	)

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "all sources",
			want: []string{"app.py", "gen/api_pb2.py", "pkg/__init__.py", "pkg/mod.py", "tests/test_mod.py"},
		},
		{
			name: "exclude patterns",
			opts: Options{Exclude: []string{"tests/", "*_pb2.py"}},
			want: []string{"app.py", "pkg/__init__.py", "pkg/mod.py"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Walk(context.Background(), root, tt.opts)
			if err != nil {
				t.Fatalf("Walk() error: %v", err)
			}
			if r := rel(t, root, got); !slices.Equal(r, tt.want) {
				t.Errorf("Walk() = %v, want %v", r, tt.want)
			}
		})
	}
}

func TestWalkGitignore(t *testing.T) {
	root := tree(t, "keep.py", "build/out.py")
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("build/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Walk(context.Background(), root, Options{RespectGitignore: true})
	if err != nil {
		t.Fatal(err)
	}
	if r := rel(t, root, got); !slices.Equal(r, []string{"keep.py"}) {
		t.Errorf("Walk() = %v, want [keep.py]", r)
	}

	got, err = Walk(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Walk() without gitignore = %v, want 2 files", got)
	}
}

func TestWalkErrors(t *testing.T) {
	root := tree(t, "a.py")
	if _, err := Walk(context.Background(), filepath.Join(root, "missing"), Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Walk(missing) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	if _, err := Walk(context.Background(), filepath.Join(root, "a.py"), Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Walk(file) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Walk(ctx, root, Options{}); err == nil {
		t.Error("Walk() should fail on a cancelled context")
	}
}

func TestWalkSample(t *testing.T) {
	root := filepath.Join("..", "module", "testdata", "sample-import")
	got, err := Walk(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 9 {
		t.Errorf("Walk() found %d files, want 9: %v", len(got), got)
	}
}
