package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

var Log zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures Log from LOG_LEVEL and LOG_FORMAT ("json" or "console").
func InitWithWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if os.Getenv("LOG_FORMAT") == "json" {
		l = zerolog.New(w).With().Timestamp().Str("service", "honeypot-console").Logger().Level(level)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(level)
	}

	Log = l
	zlog.Logger = l
}

// Ctx returns Log enriched with the request id carried by ctx, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	if reqID := pkgctx.GetRequestID(ctx); reqID != "" {
		l := Log.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Log
}
