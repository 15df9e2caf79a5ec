package inspect

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"

	"fontsieve/internal/discovery"
	"fontsieve/internal/faults"
	"fontsieve/internal/testsupport"
)

func TestInspectRealFontsAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "Go-Regular.ttf")
	broken := filepath.Join(dir, "Broken.ttf")
	mono := filepath.Join(dir, "Go-Mono.ttf")
	testsupport.WriteFont(t, regular)
	testsupport.WriteMalformedFont(t, broken)
	testsupport.WriteMonoFont(t, mono)

	inputs := []discovery.Input{
		{Name: "Go-Regular.ttf", Path: regular},
		{Name: "Broken.ttf", Path: broken},
		{Name: "Go-Mono.ttf", Path: mono},
	}
	reports := New(WithWorkers(2)).Inspect(context.Background(), inputs)
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}

	for _, idx := range []int{0, 2} {
		r := reports[idx]
		if r.Err != nil {
			t.Fatalf("%s: unexpected error %v", r.File, r.Err)
		}
		if r.PostScriptName == "" || r.PostScriptName == "<none>" {
			t.Fatalf("%s: missing PostScript name", r.File)
		}
		if r.Glyphs <= 0 {
			t.Fatalf("%s: glyph count %d", r.File, r.Glyphs)
		}
		for _, n := range r.FullNames {
			if !strings.Contains(n.Value, "Go") {
				t.Fatalf("%s: unexpected full name %+v", r.File, n)
			}
		}
		if r.Bold || r.Italic || r.Variable {
			t.Fatalf("%s: unexpected style flags %+v", r.File, r)
		}
	}
	if reports[0].File != regular || reports[2].File != mono {
		t.Fatal("reports are not in input order")
	}
	if !errors.Is(reports[1].Err, faults.ErrMalformedInput) {
		t.Fatalf("expected malformed input error for broken font, got %v", reports[1].Err)
	}
}

func TestInspectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports := New(WithWorkers(1)).Inspect(ctx, []discovery.Input{{Name: "a.ttf", Path: "/nowhere/a.ttf"}})
	if len(reports) != 1 {
		t.Fatalf("expected one report, got %d", len(reports))
	}
	// The select may still pick the semaphore; either way the file cannot be read.
	if reports[0].Err == nil {
		t.Fatal("expected an error")
	}
}

func buildFvar(axes []Axis) []byte {
	const axisSize = 20
	data := make([]byte, 16+len(axes)*axisSize)
	binary.BigEndian.PutUint16(data[0:], 1)
	binary.BigEndian.PutUint16(data[4:], 16)
	binary.BigEndian.PutUint16(data[8:], uint16(len(axes)))
	binary.BigEndian.PutUint16(data[10:], axisSize)
	for i, a := range axes {
		rec := data[16+i*axisSize:]
		copy(rec, a.Tag)
		binary.BigEndian.PutUint32(rec[4:], uint32(int32(a.Min*65536)))
		binary.BigEndian.PutUint32(rec[8:], uint32(int32(a.Default*65536)))
		binary.BigEndian.PutUint32(rec[12:], uint32(int32(a.Max*65536)))
	}
	return data
}

func TestParseFvar(t *testing.T) {
	want := []Axis{
		{Tag: "wght", Min: 100, Default: 400, Max: 900},
		{Tag: "slnt", Min: -10, Default: 0, Max: 0},
		{Tag: "opsz", Min: 14, Default: 14, Max: 32.5},
	}
	got, err := parseFvar(buildFvar(want))
	if err != nil {
		t.Fatalf("parseFvar: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("axes mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseFvar([]byte{0, 1}); err == nil {
		t.Fatal("expected error for truncated table")
	}
	truncated := buildFvar(want)[:40]
	if _, err := parseFvar(truncated); err == nil {
		t.Fatal("expected error when axis records overrun the table")
	}
}

type nameRecord struct {
	platform, encoding, language, nameID uint16
	value                                string
}

func buildName(records []nameRecord) []byte {
	var storage bytes.Buffer
	header := make([]byte, 6+12*len(records))
	binary.BigEndian.PutUint16(header[2:], uint16(len(records)))
	binary.BigEndian.PutUint16(header[4:], uint16(len(header)))
	for i, r := range records {
		var encoded []byte
		for _, u := range utf16.Encode([]rune(r.value)) {
			encoded = binary.BigEndian.AppendUint16(encoded, u)
		}
		rec := header[6+12*i:]
		binary.BigEndian.PutUint16(rec[0:], r.platform)
		binary.BigEndian.PutUint16(rec[2:], r.encoding)
		binary.BigEndian.PutUint16(rec[4:], r.language)
		binary.BigEndian.PutUint16(rec[6:], r.nameID)
		binary.BigEndian.PutUint16(rec[8:], uint16(len(encoded)))
		binary.BigEndian.PutUint16(rec[10:], uint16(storage.Len()))
		storage.Write(encoded)
	}
	return append(header, storage.Bytes()...)
}

func TestFullNames(t *testing.T) {
	data := buildName([]nameRecord{
		{platform: 3, encoding: 1, language: 0x0409, nameID: 1, value: "Family"},
		{platform: 3, encoding: 1, language: 0x0409, nameID: 4, value: "Inter Regular"},
		{platform: 1, encoding: 0, language: 0, nameID: 4, value: "Mac Roman"},
		{platform: 3, encoding: 1, language: 0x0407, nameID: 4, value: "Inter Normal"},
		{platform: 3, encoding: 1, language: 0x7C7C, nameID: 4, value: "Odd"},
		{platform: 0, encoding: 3, language: 0, nameID: 4, value: "Ünïcode"},
	})
	got, err := fullNames(data)
	if err != nil {
		t.Fatalf("fullNames: %v", err)
	}
	// Mac, Unicode-platform and unknown-language records are not reported.
	want := []LocalizedName{
		{Value: "Inter Normal", Language: "German, Germany"},
		{Value: "Inter Regular", Language: "English, United States"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if _, err := fullNames([]byte{0, 0, 0, 9, 0, 0}); err == nil {
		t.Fatal("expected error for truncated records")
	}
}

func TestLanguageLabel(t *testing.T) {
	tests := map[string]string{
		"en-US":      "English, United States",
		"fr":         "French",
		"zh-Hant-TW": "Chinese, Taiwan",
		"not a tag":  "not a tag",
	}
	for tag, want := range tests {
		if got := languageLabel(tag); got != want {
			t.Fatalf("languageLabel(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Report{
		File:           "/in/Inter.ttf",
		PostScriptName: "Inter-Regular",
		FullNames:      []LocalizedName{{Value: "Inter Regular", Language: "English, United States"}},
		Features:       []string{"kern", "liga"},
		Glyphs:         2548,
		Regular:        true,
		Variable:       true,
		Axes:           []Axis{{Tag: "wght", Min: 100, Default: 400, Max: 900}, {Tag: "opsz", Min: 14, Default: 14, Max: 32.5}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := strings.Join([]string{
		"File: /in/Inter.ttf",
		"PostScript name: Inter-Regular",
		"Full names: Inter Regular (English, United States)",
		"---",
		"Features: kern, liga",
		"Glyphs: 2548",
		"---",
		"Regular: true",
		"Italic: false",
		"Bold: false",
		"Oblique: false",
		"---",
		"Variable: true",
		"Variation axes:",
		"  - wght 100..900, default 400",
		"  - opsz 14..32.5, default 14",
		"",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteErrorReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Report{File: "/in/bad.ttf", Err: errors.New("boom")}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "File: /in/bad.ttf\nError: boom\n\n" {
		t.Fatalf("unexpected error block %q", got)
	}
}
