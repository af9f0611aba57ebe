package logger

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	zlog "github.com/rs/zerolog/log"

	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

var envMu sync.Mutex

func withEnv(t *testing.T, kv map[string]string) {
	t.Helper()

	envMu.Lock()
	t.Cleanup(envMu.Unlock)

	prev := map[string]*string{}
	for k, v := range kv {
		if old, ok := os.LookupEnv(k); ok {
			tmp := old
			prev[k] = &tmp
		} else {
			prev[k] = nil
		}
		_ = os.Setenv(k, v)
	}

	t.Cleanup(func() {
		for k, old := range prev {
			if old == nil {
				_ = os.Unsetenv(k)
			} else {
				_ = os.Setenv(k, *old)
			}
		}
	})
}

func TestInitWithWriter_Defaults_ToInfoAndConsole(t *testing.T) {
	withEnv(t, map[string]string{"LOG_LEVEL": "", "LOG_FORMAT": ""})

	var buf bytes.Buffer
	InitWithWriter(&buf)

	if Log.GetLevel().String() != "info" {
		t.Fatalf("expected level=info, got %s", Log.GetLevel().String())
	}
	if zlog.Logger.GetLevel().String() != "info" {
		t.Fatalf("expected global level=info, got %s", zlog.Logger.GetLevel().String())
	}

	Log.Info().Msg("hello")
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got json-like: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got: %q", out)
	}
}

func TestInitWithWriter_InvalidLogLevel_FallsBackToInfo(t *testing.T) {
	withEnv(t, map[string]string{"LOG_LEVEL": "loud", "LOG_FORMAT": "console"})

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Log.Debug().Msg("debug-should-not-print")
	Log.Info().Msg("info-should-print")
	out := buf.String()

	if strings.Contains(out, "debug-should-not-print") {
		t.Fatalf("did not expect debug output at info level, got: %q", out)
	}
	if !strings.Contains(out, "info-should-print") {
		t.Fatalf("expected info output, got: %q", out)
	}
}

func TestInitWithWriter_JSONFormat_OutputsJSON(t *testing.T) {
	withEnv(t, map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": "json"})

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Log.Debug().Str("k", "v").Msg("hello")
	out := strings.TrimSpace(buf.String())

	if !strings.HasPrefix(out, "{") || !strings.HasSuffix(out, "}") {
		t.Fatalf("expected json object line, got: %q", out)
	}
	if !strings.Contains(out, `"k":"v"`) || !strings.Contains(out, `"service":"honeypot-console"`) {
		t.Fatalf("expected fields, got: %q", out)
	}
}

func TestCtx_AddsRequestID(t *testing.T) {
	withEnv(t, map[string]string{"LOG_LEVEL": "info", "LOG_FORMAT": "json"})

	var buf bytes.Buffer
	InitWithWriter(&buf)

	ctx := pkgctx.WithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info().Msg("scoped")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("expected request_id field, got: %q", buf.String())
	}
}

func TestCtx_WithoutRequestID_ReturnsBase(t *testing.T) {
	withEnv(t, map[string]string{"LOG_LEVEL": "info", "LOG_FORMAT": "json"})

	var buf bytes.Buffer
	InitWithWriter(&buf)

	if Ctx(context.Background()) != &Log {
		t.Fatalf("expected base logger")
	}
}
