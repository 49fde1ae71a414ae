package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// ErrTooLarge is returned by ReadAll when the body exceeds the limit
var ErrTooLarge = goerr.New("body exceeds size limit")

// Close closes closer and logs the error, if any. nil is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs the error, if any. nil is ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// ReadAll reads rc up to limit bytes and closes it. Reading more than
// limit bytes fails with ErrTooLarge.
func ReadAll(ctx context.Context, rc io.ReadCloser, limit int64) ([]byte, error) {
	defer Close(ctx, rc)

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read body")
	}
	if int64(len(data)) > limit {
		return nil, goerr.Wrap(ErrTooLarge, "body is too large", goerr.V("limit", limit))
	}
	return data, nil
}
