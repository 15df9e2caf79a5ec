package discovery_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fontsieve/internal/discovery"
	"fontsieve/internal/faults"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanFiltersByExtensionAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.otf", "a.ttf", "C.WOFF2", "d.woff", "notes.txt", "noext"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.ttf"), 0o755); err != nil {
		t.Fatal(err)
	}

	inputs, err := discovery.Scan(dir, nil)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	var names []string
	for _, in := range inputs {
		names = append(names, in.Name)
		if in.Path != filepath.Join(dir, in.Name) {
			t.Fatalf("unexpected path %q for %q", in.Path, in.Name)
		}
	}
	want := []string{"C.WOFF2", "a.ttf", "b.otf", "d.woff"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.ttf"))
	touch(t, filepath.Join(dir, "b.otf"))

	inputs, err := discovery.Scan(dir, []string{".otf"})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(inputs) != 1 || inputs[0].Name != "b.otf" {
		t.Fatalf("unexpected inputs: %+v", inputs)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := discovery.Scan(filepath.Join(t.TempDir(), "absent"), nil)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	inputs, err := discovery.Scan(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(inputs) != 0 {
		t.Fatalf("expected no inputs, got %+v", inputs)
	}
}

func TestMergeRejectsCollidingNames(t *testing.T) {
	a := []discovery.Input{{Name: "Font.ttf", Path: "/one/Font.ttf"}}
	b := []discovery.Input{{Name: "Font.ttf", Path: "/two/Font.ttf"}}
	if _, err := discovery.Merge(a, b); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestMergeDropsRepeatedPaths(t *testing.T) {
	a := []discovery.Input{{Name: "b.ttf", Path: "/fonts/b.ttf"}, {Name: "a.ttf", Path: "/fonts/a.ttf"}}
	b := []discovery.Input{{Name: "a.ttf", Path: "/fonts/a.ttf"}}
	merged, err := discovery.Merge(a, b)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	want := []discovery.Input{{Name: "a.ttf", Path: "/fonts/a.ttf"}, {Name: "b.ttf", Path: "/fonts/b.ttf"}}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSystemUnknownFont(t *testing.T) {
	_, err := discovery.ResolveSystem([]string{"fontsieve-no-such-font-4c1e.ttf"})
	if err == nil {
		t.Fatal("expected error for unknown system font")
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestResolveSystemSkipsBlankNames(t *testing.T) {
	inputs, err := discovery.ResolveSystem([]string{"", "  "})
	if err != nil {
		t.Fatalf("ResolveSystem returned error: %v", err)
	}
	if len(inputs) != 0 {
		t.Fatalf("expected no inputs, got %+v", inputs)
	}
}
