// Package safe wraps cleanup and streaming calls whose errors can only be
// logged: closing response bodies, writing HTTP replies, removing temp files.
package safe

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/secmon-lab/medmatch/pkg/utils/logging"
)

// Close closes c and logs a failure. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("Failed to close", slog.Any("error", err))
	}
}

// Write sends data to w, typically a response body after the status line is
// already out, so the error has nowhere else to go.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("Failed to write response",
			slog.Any("error", err),
			slog.Int("size", len(data)),
		)
	}
}

// Copy streams src into dst and returns the number of bytes written
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		logging.From(ctx).Warn("Failed to stream",
			slog.Any("error", err),
			slog.Int64("written", n),
		)
	}
	return n
}

// Remove deletes path. A file that is already gone is not an error.
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Warn("Failed to remove file",
			slog.Any("error", err),
			slog.String("path", path),
		)
	}
}
