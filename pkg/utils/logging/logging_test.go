package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
)

func TestFrom(t *testing.T) {
	t.Run("returns default logger without embedded one", func(t *testing.T) {
		gt.V(t, logging.From(context.Background())).Equal(logging.Default())
	})

	t.Run("returns embedded logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := logging.With(context.Background(), logger)

		logging.From(ctx).Info("hello")
		gt.String(t, buf.String()).Contains("hello")
	})
}

func TestSetDefault(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	var buf bytes.Buffer
	logging.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	logging.Default().Info("configured")
	gt.String(t, buf.String()).Contains("configured")

	logging.SetDefault(nil)
	logging.Default().Info("still configured")
	gt.String(t, buf.String()).Contains("still configured")
}
