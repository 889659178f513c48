package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jdwit/s3-metadata-extractor/internal/config"
)

// Sink is an append-only line logger. Writes are best effort.
type Sink interface {
	Printf(format string, v ...any)
}

// Logger creates per-invocation sinks writing to a single output.
type Logger struct {
	format string
	out    io.Writer
	zl     zerolog.Logger
}

func New(format, level string, out io.Writer) (*Logger, error) {
	// sinks of concurrent invocations share out
	out = zerolog.SyncWriter(out)
	l := &Logger{format: format, out: out}
	switch format {
	case config.LogFormatText, "":
		l.format = config.LogFormatText
	case config.LogFormatJSON:
		lvl, err := parseLevel(level)
		if err != nil {
			return nil, err
		}
		l.zl = zerolog.New(out).With().Timestamp().Logger().Level(lvl)
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	return l, nil
}

// ForRequest returns a sink tagged with the given request id.
func (l *Logger) ForRequest(requestID string) Sink {
	if l.format == config.LogFormatJSON {
		return &zerologSink{zl: l.zl.With().Str("request_id", requestID).Logger()}
	}
	prefix := ""
	if requestID != "" {
		prefix = requestID + " "
	}
	return &textSink{l: log.New(l.out, prefix, log.LstdFlags)}
}

// RequestID returns the Lambda request id carried by ctx, or a new random id
// when running outside Lambda.
func RequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}

type textSink struct {
	l *log.Logger
}

func (s *textSink) Printf(format string, v ...any) {
	s.l.Printf(format, v...)
}

type zerologSink struct {
	zl zerolog.Logger
}

func (s *zerologSink) Printf(format string, v ...any) {
	s.zl.Info().Msgf(format, v...)
}
