package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/interfaces/shell"
)

const testCredentialEnv = "AGENTSHELL_TEST_KEY"

// syncBuffer is written by the run loop while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 5s")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "agentshell.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func testConfig(t *testing.T) string {
	t.Helper()
	return writeConfig(t, `
agent:
  name: Test Bot
  credential_env: `+testCredentialEnv+`
loop:
  interval: 1h
logging:
  level: error
`)
}

func TestApp_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "agentshell version "+Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestApp_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, cmd := range []string{"run", "chat", "validate", "version"} {
		if !strings.Contains(stdout.String(), cmd) {
			t.Errorf("help output missing %q", cmd)
		}
	}
}

func TestApp_Validate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"validate", "-c", testConfig(t)}); err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Configuration is valid") || !strings.Contains(stdout.String(), "Test Bot") {
		t.Errorf("validate output = %q", stdout.String())
	}
}

func TestApp_ValidateInvalid(t *testing.T) {
	path := writeConfig(t, `
journal:
  driver: cassandra
`)

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"validate", "-c", path})
	if err == nil || !strings.Contains(err.Error(), "journal.driver") {
		t.Errorf("validate error = %v, want journal.driver failure", err)
	}
}

func TestApp_ValidateRequiresConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"validate"}); err == nil {
		t.Error("validate without -c should fail")
	}
}

func TestApp_RunMissingCredential(t *testing.T) {
	t.Setenv(testCredentialEnv, "")

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"run", "-c", testConfig(t)})
	if !errors.Is(err, agent.ErrMissingCredential) {
		t.Fatalf("run error = %v, want ErrMissingCredential", err)
	}
	if strings.Contains(stdout.String(), shell.MsgInitializing) {
		t.Errorf("stdout = %q, must not announce init", stdout.String())
	}
}

func TestApp_RunDryRun(t *testing.T) {
	t.Setenv(testCredentialEnv, "key")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	app := New().WithOutput(&stdout, &stderr)

	path := testConfig(t)
	done := make(chan error, 1)
	go func() {
		done <- app.ExecuteWithArgs(ctx, []string{"run", "-c", path, "--dry-run"})
	}()

	// The first tick fires immediately.
	waitFor(t, func() bool { return strings.Contains(stdout.String(), "[dry-run]") })
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("run error = %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, shell.MsgInitialized) {
		t.Errorf("stdout = %q", out)
	}
	if strings.Contains(out, "Greeting: ") {
		t.Errorf("dry run executed the action: %q", out)
	}
}

func TestApp_Chat(t *testing.T) {
	t.Setenv(testCredentialEnv, "key")

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr).WithInput(strings.NewReader("hello\nEXIT\n"))

	if err := app.ExecuteWithArgs(context.Background(), []string{"chat", "-c", testConfig(t)}); err != nil {
		t.Fatalf("chat error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{shell.MsgInitialized, "You: ", "Agent: You said: hello", "Goodbye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q: %q", want, out)
		}
	}
}

func TestApp_ChatUnknownWorker(t *testing.T) {
	t.Setenv(testCredentialEnv, "key")

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr).WithInput(strings.NewReader("hello\n"))

	err := app.ExecuteWithArgs(context.Background(), []string{"chat", "-c", testConfig(t), "--worker", "ghost"})
	if !errors.Is(err, agent.ErrWorkerNotFound) {
		t.Errorf("chat error = %v, want ErrWorkerNotFound", err)
	}
}
