package app

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/ui/style"
	"go.trai.ch/zerr"
)

// Report summarizes one written bundle.
type Report struct {
	Target   string
	Output   string
	Size     uint64
	GzipSize uint64
	Duration time.Duration
}

type countingWriter struct{ n uint64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += uint64(len(p))
	return len(p), nil
}

var _ io.Writer = (*countingWriter)(nil)

// measure computes the raw and gzip size of a bundle.
func measure(target domain.Target, output string, data []byte, d time.Duration) (Report, error) {
	var counter countingWriter
	zw, err := gzip.NewWriterLevel(&counter, gzip.BestCompression)
	if err != nil {
		return Report{}, zerr.Wrap(err, "failed to create gzip writer")
	}
	if _, err := zw.Write(data); err != nil {
		return Report{}, zerr.Wrap(err, "failed to compress bundle")
	}
	if err := zw.Close(); err != nil {
		return Report{}, zerr.Wrap(err, "failed to compress bundle")
	}

	return Report{
		Target:   target.Name,
		Output:   output,
		Size:     uint64(len(data)),
		GzipSize: counter.n,
		Duration: d.Round(time.Millisecond),
	}, nil
}

// String renders the report as plain text.
func (r Report) String() string {
	return fmt.Sprintf("%s %s %s %s (gzip %s) in %s",
		r.Target, style.Arrow, r.Output, humanize.Bytes(r.Size), humanize.Bytes(r.GzipSize), r.Duration)
}

// Styled renders the report with terminal colors.
func (r Report) Styled() string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		style.Success.Render(style.Check),
		style.Accent.Render(r.Target),
		style.Muted.Render(style.Arrow),
		r.Output,
		humanize.Bytes(r.Size),
		style.Muted.Render(fmt.Sprintf("(gzip %s) in %s", humanize.Bytes(r.GzipSize), r.Duration)),
	)
}
