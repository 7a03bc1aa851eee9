package pyimport

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/importdeps/pkg/errors"
	"github.com/matzehuels/importdeps/pkg/module"
)

func parse(t *testing.T, src string) []module.RawImport {
	t.Helper()
	got, err := New().Parse(context.Background(), []byte(src), "test.py")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return got
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []module.RawImport
	}{
		{"import", "import bar\n", []module.RawImport{{Name: "bar"}}},
		{"dotted import", "import sample_g.other\n", []module.RawImport{{Name: "sample_g.other"}}},
		{"multiple names", "import a, b.c\n", []module.RawImport{{Name: "a"}, {Name: "b.c"}}},
		{"alias", "import numpy as np\n", []module.RawImport{{Name: "numpy", Alias: "np"}}},
		{"from", "from foo import foo_b\n", []module.RawImport{{Qualifier: "foo", Name: "foo_b"}}},
		{"from dotted", "from foo.foo_c import obj_c\n", []module.RawImport{{Qualifier: "foo.foo_c", Name: "obj_c"}}},
		{"from alias", "from a import b as c\n", []module.RawImport{{Qualifier: "a", Name: "b", Alias: "c"}}},
		{"relative", "from . import foo_i\n", []module.RawImport{{Name: "foo_i", Level: 1}}},
		{"relative parent", "from .. import sample_d\n", []module.RawImport{{Name: "sample_d", Level: 2}}},
		{"relative qualified", "from ..sample_e import jkl\n", []module.RawImport{{Qualifier: "sample_e", Name: "jkl", Level: 2}}},
		{"wildcard", "from sample_f import *\n", []module.RawImport{{Qualifier: "sample_f", Name: "*"}}},
		{"parenthesized", "from x import (\n    a,\n    b,\n)\n", []module.RawImport{{Qualifier: "x", Name: "a"}, {Qualifier: "x", Name: "b"}}},
		{"future", "from __future__ import annotations\n", []module.RawImport{{Qualifier: "__future__", Name: "annotations"}}},
		{"no imports", "x = 1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parse(t, tt.src); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseNested(t *testing.T) {
	src := `import first

def f():
    import inner

class C:
    from pkg import member

try:
    import fast
except ImportError:
    import slow

if True:
    from . import local
`
	want := []module.RawImport{
		{Name: "first"},
		{Name: "inner"},
		{Qualifier: "pkg", Name: "member"},
		{Name: "fast"},
		{Name: "slow"},
		{Name: "local", Level: 1},
	}
	if got := parse(t, src); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := New().Parse(context.Background(), []byte("import os\ndef broken(:\n    pass\n"), "bad.py")
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("Parse() error = %v, want %s", err, errors.ErrCodeParse)
	}
	if !strings.Contains(err.Error(), "bad.py") {
		t.Errorf("error %q should name the file", err)
	}
}

func TestParseLegacyStatements(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"print statement", "import os\nprint 'x'\n", true},
		{"exec statement", "exec 'x = 1'\n", true},
		{"print call", "import os\nprint('x')\n", false},
		{"exec call", "exec('x = 1')\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), []byte(tt.src), "mod.py")
			if tt.wantErr && !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeParse)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Parse() error = %v, want nil", err)
			}
		})
	}
}

func TestExtractSample(t *testing.T) {
	path := filepath.Join("..", "module", "testdata", "sample-import", "foo", "foo_a.py")
	got, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	want := []module.RawImport{
		{Name: "bar"},
		{Qualifier: "foo", Name: "foo_b"},
		{Qualifier: "foo.foo_c", Name: "obj_c"},
		{Name: "sample_d", Level: 2},
		{Qualifier: "sample_e", Name: "jkl", Level: 2},
		{Qualifier: "sample_f", Name: "*"},
		{Name: "sample_g.other"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractMaxFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.py")
	if err := os.WriteFile(path, []byte(strings.Repeat("import os\n", 100)), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(WithMaxFileSize(64)).Extract(context.Background(), path)
	if !errors.Is(err, errors.ErrCodeFileTooLarge) {
		t.Errorf("Extract() error = %v, want %s", err, errors.ErrCodeFileTooLarge)
	}

	// non-positive sizes keep the default
	if _, err := New(WithMaxFileSize(0)).Extract(context.Background(), path); err != nil {
		t.Errorf("Extract() error = %v, want nil", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.py")); err == nil {
		t.Error("Extract() should fail for a missing file")
	}
}
