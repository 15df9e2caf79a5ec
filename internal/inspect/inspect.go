package inspect

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	xsfnt "golang.org/x/image/font/sfnt"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/opentype/gtab"

	"fontsieve/internal/discovery"
	"fontsieve/internal/faults"
	"fontsieve/internal/logging"
)

// Report describes one font file.
type Report struct {
	File           string
	PostScriptName string
	FullNames      []LocalizedName
	Features       []string
	Glyphs         int
	Regular        bool
	Italic         bool
	Bold           bool
	Oblique        bool
	Variable       bool
	Axes           []Axis
	Err            error
}

// Inspector reads font metadata.
type Inspector struct {
	workers int
	logger  *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithWorkers bounds how many files are parsed at once.
func WithWorkers(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.workers = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New constructs an Inspector.
func New(opts ...Option) *Inspector {
	i := &Inspector{workers: runtime.NumCPU(), logger: logging.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = logging.NewComponentLogger(i.logger, "inspect")
	return i
}

// Inspect parses every input concurrently and returns reports in input order.
// Files not started before ctx is cancelled carry ctx.Err().
func (i *Inspector) Inspect(ctx context.Context, inputs []discovery.Input) []Report {
	reports := make([]Report, len(inputs))
	sem := make(chan struct{}, max(i.workers, 1))
	var wg sync.WaitGroup
	for idx, input := range inputs {
		select {
		case <-ctx.Done():
			reports[idx] = Report{File: input.Path, Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			reports[idx] = i.inspectFile(input.Path)
			if err := reports[idx].Err; err != nil {
				i.logger.Warn("font inspection failed",
					logging.Font(input.Path),
					logging.Error(err),
				)
			}
		}()
	}
	wg.Wait()
	return reports
}

func (i *Inspector) inspectFile(path string) (report Report) {
	report.File = path
	defer func() {
		if r := recover(); r != nil {
			report = Report{File: path, Err: faults.Wrap(faults.ErrMalformedInput, "inspect", "parse", fmt.Sprintf("parser panic: %v", r), nil)}
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("read font: %w", err)
		return report
	}
	if err := File(&report, data); err != nil {
		report.Err = err
	}
	return report
}

// File fills report from raw font bytes.
func File(report *Report, data []byte) error {
	xf, err := xsfnt.Parse(data)
	if err != nil {
		return faults.Wrap(faults.ErrMalformedInput, "inspect", "parse", "", err)
	}
	var buf xsfnt.Buffer
	report.PostScriptName, err = xf.Name(&buf, xsfnt.NameIDPostScript)
	if err != nil || strings.TrimSpace(report.PostScriptName) == "" {
		report.PostScriptName = "<none>"
	}
	report.Glyphs = xf.NumGlyphs()

	font, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return faults.Wrap(faults.ErrMalformedInput, "inspect", "layout", "", err)
	}
	report.Features = featureTags(font)
	report.Regular = font.IsRegular
	report.Italic = font.IsItalic
	report.Bold = font.IsBold
	report.Oblique = font.IsOblique

	r := bytes.NewReader(data)
	toc, err := header.Read(r)
	if err != nil {
		return faults.Wrap(faults.ErrMalformedInput, "inspect", "tables", "", err)
	}
	if nameData, err := toc.ReadTableBytes(r, "name"); err == nil {
		if names, err := fullNames(nameData); err == nil {
			report.FullNames = names
		}
	}
	if fvarData, err := toc.ReadTableBytes(r, "fvar"); err == nil {
		report.Variable = true
		axes, err := parseFvar(fvarData)
		if err != nil {
			return faults.Wrap(faults.ErrMalformedInput, "inspect", "fvar", "", err)
		}
		report.Axes = axes
	}
	return nil
}

func featureTags(font *sfnt.Font) []string {
	seen := make(map[string]struct{})
	for _, info := range []*gtab.Info{font.Gpos, font.Gsub} {
		if info == nil {
			continue
		}
		for _, feature := range info.FeatureList {
			if feature == nil {
				continue
			}
			seen[strings.TrimSpace(fmt.Sprint(feature.Tag))] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
