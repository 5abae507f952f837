package hook

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptHook writes a shell script to a temporary directory and returns a hook running it.
func scriptHook(t *testing.T, name, script string) *Hook {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return &Hook{
		Manifest:   Manifest{Name: name, Version: "1.0.0", Executable: name + ".sh"},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Run(t *testing.T) {
	h := scriptHook(t, "ok", "echo '{\"success\":true,\"data\":{\"message\":\"hello\"}}'\n")

	resp, err := NewExecutor(5*time.Second).Run(context.Background(), h, Event{Type: EventRoundResolved})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}

	var data map[string]string
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
	if data["message"] != "hello" {
		t.Errorf("message = %q, want hello", data["message"])
	}
}

func TestExecutor_Run_ReadsEvent(t *testing.T) {
	h := scriptHook(t, "echo", "INPUT=$(cat)\necho \"{\\\"success\\\":true,\\\"data\\\":$INPUT}\"\n")
	h.Manifest.Config = json.RawMessage(`{"led":"red"}`)

	ev := Event{Type: EventRoundResolved, RoundID: "r1", Player: "Rock", Computer: "Scissors", Outcome: "win", Streak: 2, HighScore: 3}
	resp, err := NewExecutor(0).Run(context.Background(), h, ev)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got Event
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("failed to unmarshal echoed event: %v", err)
	}
	if got.Outcome != "win" || got.Streak != 2 || got.HighScore != 3 {
		t.Errorf("echoed event = %+v", got)
	}
	if string(got.Config) != `{"led":"red"}` {
		t.Errorf("config = %s, want the manifest config", got.Config)
	}
}

func TestExecutor_Run_Timeout(t *testing.T) {
	h := scriptHook(t, "slow", "sleep 5\n")

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond).Run(context.Background(), h, Event{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Run() took %v, expected to stop near the timeout", elapsed)
	}
}

func TestExecutor_Run_Failures(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{name: "invalid json", script: "echo not json\n", wantErr: "parse hook response"},
		{name: "non-zero exit", script: "echo broken >&2\nexit 3\n", wantErr: "stderr: broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := scriptHook(t, "bad", tt.script)
			_, err := NewExecutor(time.Second).Run(context.Background(), h, Event{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Run() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExecutor_Run_ErrorResponse(t *testing.T) {
	h := scriptHook(t, "refuse", "echo '{\"success\":false,\"error\":\"device busy\"}'\n")

	resp, err := NewExecutor(time.Second).Run(context.Background(), h, Event{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp.Success || resp.Error != "device busy" {
		t.Errorf("response = %+v, want failure with 'device busy'", resp)
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(0).timeout; got != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := NewExecutor(time.Second).timeout; got != time.Second {
		t.Errorf("timeout = %v, want 1s", got)
	}
}
