package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}

	if ProductionConfig().Format != "json" {
		t.Error("ProductionConfig should use json")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"INFO", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"agent", AgentName("Greeting Bot"), `"agent":"Greeting Bot"`},
		{"worker", WorkerID("greeting_worker"), `"worker":"greeting_worker"`},
		{"action", ActionName("greet"), `"action":"greet"`},
		{"status", Status(action.StatusDone), `"status":"done"`},
		{"mode", Mode(agent.ModeTask), `"mode":"task"`},
		{"task", TaskID("t-1"), `"task_id":"t-1"`},
		{"session", SessionID("s-1"), `"session_id":"s-1"`},
		{"tick", Tick(3), `"tick":3`},
		{"plan", PlanSize(2), `"plan_size":2`},
		{"duration", Duration(1500 * time.Millisecond), `"duration_ms":1500`},
		{"goal", Goal("greet"), `"goal":"greet"`},
		{"reason", Reason("keyword"), `"reason":"keyword"`},
		{"component", Component("runtime"), `"component":"runtime"`},
		{"operation", Operation("tick"), `"operation":"tick"`},
		{"str", Str("k", "v"), `"k":"v"`},
		{"int", Int("n", 7), `"n":7`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	ErrorField(errors.New("boom"))(logger.Error()).Msg("failed")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error in output: %s", buf.String())
	}

	logger, buf = testLogger()
	ErrorField(nil)(logger.Info()).Msg("ok")
	if strings.Contains(buf.String(), `"error"`) {
		t.Errorf("nil error should add nothing: %s", buf.String())
	}
}

func TestLogEvent_Add(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	NewEvent(logger.Info()).Add(AgentName("bot")).Add(WorkerID("w")).Msg("chained")

	out := buf.String()
	for _, want := range []string{`"agent":"bot"`, `"worker":"w"`, "chained"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}

func TestNew_JSONToWriter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Format: "json", Output: buf})
	logger.Info().Msg("hidden")
	logger.Warn().Msg("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info should be filtered at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("warn should be logged: %s", buf.String())
	}
}

func TestBannerSink(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	sink := BannerSink(buf, "Greeting Bot")
	sink("Greeting: hi")

	want := "-----[Greeting Bot]-----\nGreeting: hi\n\n\n"
	if buf.String() != want {
		t.Errorf("BannerSink wrote %q, want %q", buf.String(), want)
	}
}

func TestBannerSink_Concurrent(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	sink := BannerSink(buf, "bot")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink("msg")
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "-----[bot]-----\nmsg\n"); got != 10 {
		t.Errorf("expected 10 intact banners, got %d", got)
	}
}

func TestBoltSink(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	BoltSink(logger, "bot")("tick finished")
	if !strings.Contains(buf.String(), `"agent":"bot"`) || !strings.Contains(buf.String(), "tick finished") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestTee(t *testing.T) {
	t.Parallel()

	var a, b []string
	sink := Tee(
		func(m string) { a = append(a, m) },
		nil,
		func(m string) { b = append(b, m) },
	)
	sink("x")
	Discard("ignored")

	if len(a) != 1 || len(b) != 1 {
		t.Errorf("a = %v, b = %v", a, b)
	}
}
