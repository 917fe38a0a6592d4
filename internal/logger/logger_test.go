package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/real-time-ressys/services/social-service/internal/pkg/context"
)

func TestSetup_Defaults_ToInfoAndConsole(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "", "")

	if Logger.GetLevel().String() != "info" {
		t.Fatalf("expected level=info, got %s", Logger.GetLevel().String())
	}
	if zlog.Logger.GetLevel().String() != "info" {
		t.Fatalf("expected global level=info, got %s", zlog.Logger.GetLevel().String())
	}

	Logger.Info().Msg("hello")
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got json-like: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got: %q", out)
	}
}

func TestSetup_InvalidLogLevel_FallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "not-a-level", "console")

	Logger.Debug().Msg("debug-should-not-print")
	Logger.Info().Msg("info-should-print")
	out := buf.String()

	if strings.Contains(out, "debug-should-not-print") {
		t.Fatalf("did not expect debug output at info level, got: %q", out)
	}
	if !strings.Contains(out, "info-should-print") {
		t.Fatalf("expected info output, got: %q", out)
	}
}

func TestSetup_WarnLevel_DropsInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "warn", "json")

	Logger.Info().Msg("info-should-not-print")
	Logger.Warn().Msg("warn-should-print")
	out := buf.String()

	if strings.Contains(out, "info-should-not-print") {
		t.Fatalf("did not expect info output at warn level, got: %q", out)
	}
	if !strings.Contains(out, "warn-should-print") {
		t.Fatalf("expected warn output, got: %q", out)
	}
}

func TestSetup_JSONFormat_OutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info", "json")

	Logger.Info().Str("k", "v").Msg("hello")
	out := strings.TrimSpace(buf.String())

	if !strings.HasPrefix(out, "{") || !strings.HasSuffix(out, "}") {
		t.Fatalf("expected json object line, got: %q", out)
	}
	if !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("expected k field, got: %q", out)
	}
	if !strings.Contains(out, `"service":"social-service"`) {
		t.Fatalf("expected service field, got: %q", out)
	}
}

func TestWithCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info", "json")

	ctx := appCtx.WithRequestID(context.Background(), "rid-123")
	WithCtx(ctx).Info().Msg("tagged")
	WithCtx(context.Background()).Info().Msg("untagged")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"request_id":"rid-123"`) {
		t.Fatalf("expected request_id, got: %q", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Fatalf("did not expect request_id, got: %q", lines[1])
	}
}
