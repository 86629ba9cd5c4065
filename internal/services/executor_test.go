package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nfo2tags/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorStreamsStdout(t *testing.T) {
	script := writeScript(t, "echo one\necho two\necho noise 1>&2\nexit 0")
	var lines []string
	err := services.CommandExecutor{}.Run(context.Background(), script, nil, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.Join(lines, ",") != "one,two" {
		t.Fatalf("unexpected stdout lines %v", lines)
	}
}

func TestCommandExecutorReportsExitCodeAndStderr(t *testing.T) {
	script := writeScript(t, "echo 'bad input' 1>&2\nexit 3")
	err := services.CommandExecutor{}.Run(context.Background(), script, nil, nil)
	var exitErr *services.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 || services.ExitCode(err) != 3 {
		t.Fatalf("unexpected exit code %d", exitErr.Code)
	}
	if !strings.Contains(exitErr.Stderr, "bad input") {
		t.Fatalf("expected stderr tail, got %q", exitErr.Stderr)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	err := services.CommandExecutor{}.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, nil)
	if err == nil {
		t.Fatal("expected start error")
	}
	if services.ExitCode(err) != -1 {
		t.Fatalf("expected no exit code, got %d", services.ExitCode(err))
	}
}

func TestCommandExecutorHonoursCancellation(t *testing.T) {
	script := writeScript(t, "sleep 5")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := services.CommandExecutor{}.Run(ctx, script, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
