package observe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	fberrors "github.com/vango-dev/formbind/internal/errors"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mw := Logging(logger)

	assert.NoError(t, mw(context.Background(), "submit", pass))
	assert.Contains(t, buf.String(), "action started")
	assert.Contains(t, buf.String(), "action completed")

	buf.Reset()
	want := fberrors.New("F001")
	err := mw(context.Background(), "submit", func(context.Context) error { return want })
	assert.True(t, errors.Is(err, want))
	assert.Contains(t, buf.String(), "action failed")
	assert.Contains(t, buf.String(), "code=F001")
}

func TestLoggingNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = Logging(nil)(context.Background(), "submit", pass)
	})
}
