package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fontsieve/internal/faults"
	"fontsieve/internal/fileutil"
	"fontsieve/internal/logging"
	"fontsieve/internal/unirange"
	"fontsieve/internal/webfont"
)

const defaultCompressionQuality = 8

// InProcess subsets fonts with a library engine and always writes WOFF2.
type InProcess struct {
	engine     Engine
	compress   Compressor
	quality    int
	logger     *slog.Logger
	outputMode os.FileMode
}

// InProcessOption configures an InProcess backend.
type InProcessOption func(*InProcess)

// WithEngine replaces the subsetting engine (primarily for tests).
func WithEngine(engine Engine) InProcessOption {
	return func(b *InProcess) {
		if engine != nil {
			b.engine = engine
		}
	}
}

// WithCompressor replaces the WOFF2 encoder (primarily for tests).
func WithCompressor(compress Compressor) InProcessOption {
	return func(b *InProcess) {
		if compress != nil {
			b.compress = compress
		}
	}
}

// WithCompressionQuality sets the Brotli quality used for WOFF2 output.
func WithCompressionQuality(quality int) InProcessOption {
	return func(b *InProcess) {
		b.quality = quality
	}
}

// WithInProcessLogger attaches a logger.
func WithInProcessLogger(logger *slog.Logger) InProcessOption {
	return func(b *InProcess) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewInProcess constructs the library-based backend.
func NewInProcess(opts ...InProcessOption) *InProcess {
	b := &InProcess{
		engine:     SFNTEngine{},
		quality:    defaultCompressionQuality,
		logger:     logging.NewNop(),
		outputMode: 0o644,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.compress == nil {
		quality := b.quality
		b.compress = func(font []byte) ([]byte, error) {
			return webfont.EncodeWOFF2(font, quality)
		}
	}
	b.logger = logging.NewComponentLogger(b.logger, "inprocess")
	return b
}

// Kind implements Backend.
func (b *InProcess) Kind() Kind { return KindInProcess }

// Apply implements Backend. The requested flavor is ignored: output is
// always WOFF2.
func (b *InProcess) Apply(ctx context.Context, req Request) Result {
	started := time.Now()
	res := Result{Input: req.Input, Backend: KindInProcess, Attempts: 1}

	if err := ctx.Err(); err != nil {
		res.Attempts = 0
		return cancelled(res, err, started)
	}

	sel, err := unirange.Parse(req.Tokens)
	if err != nil {
		return fatal(res, err, started)
	}

	data, err := os.ReadFile(req.Input.Path)
	if err != nil {
		return skipped(res, "unreadable input", faults.Wrap(faults.ErrMalformedInput, "inprocess", "read", req.Input.Name, err), started)
	}
	res.InputBytes = int64(len(data))

	subset, err := b.runEngine(data, sel)
	if err != nil {
		b.logger.Debug("subset declined",
			logging.Font(req.Input.Path),
			logging.Error(err),
		)
		return skipped(res, faults.Reason(err), err, started)
	}

	compressed, err := b.compress(subset)
	if err != nil {
		return skipped(res, "compression failed", fmt.Errorf("compress %s: %w", req.Input.Name, err), started)
	}

	outPath := OutputPath(req.OutputDir, req.Input.Name, FlavorWOFF2.Extension())
	if err := fileutil.WriteFileAtomic(outPath, compressed, b.outputMode); err != nil {
		return fatal(res, faults.Wrap(faults.ErrOutput, "inprocess", "write", outPath, err), started)
	}

	res.Outcome = OutcomeWritten
	res.OutputPath = outPath
	res.Bytes = int64(len(compressed))
	res.Duration = time.Since(started)
	b.logger.Debug("subset written",
		logging.Font(req.Input.Path),
		logging.String(logging.FieldOutput, outPath),
		logging.Int64("bytes", res.Bytes),
	)
	return res
}

// runEngine turns engine panics on hostile input into malformed-input errors
// so one bad file cannot take down the batch.
func (b *InProcess) runEngine(data []byte, sel *unirange.Selection) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = faults.Wrap(faults.ErrMalformedInput, "inprocess", "subset", fmt.Sprintf("engine panic: %v", r), nil)
		}
	}()
	return b.engine.Subset(data, sel)
}
