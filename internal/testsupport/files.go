package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// WriteFont writes a real TrueType font (Go Regular) to path.
func WriteFont(t testing.TB, path string) {
	t.Helper()
	writeBytes(t, path, goregular.TTF)
}

// WriteMonoFont writes Go Mono to path, for tests that need two distinct fonts.
func WriteMonoFont(t testing.TB, path string) {
	t.Helper()
	writeBytes(t, path, gomono.TTF)
}

// WriteMalformedFont writes bytes that carry a font extension but cannot be
// parsed as a font.
func WriteMalformedFont(t testing.TB, path string) {
	t.Helper()
	writeBytes(t, path, []byte("\x00\x01\x00\x00 this is not a font"))
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
