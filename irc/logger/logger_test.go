// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, config ...LoggingConfig) (*Manager, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	manager, err := NewManagerWithOutput(config, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	return manager, &stdout, &stderr
}

func TestLevelsAndTypes(t *testing.T) {
	manager, stdout, stderr := newTestManager(t, LoggingConfig{
		MethodStdout:  true,
		Level:         LogInfo,
		Types:         []string{"*"},
		ExcludedTypes: []string{"commands"},
	})

	manager.Debug("session", "too quiet")
	manager.Info("commands", "excluded")
	manager.Info("session", "Registered as", "oxygen")
	manager.Error("factoids", "broken")

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", stdout.String())
	}
	if !strings.HasSuffix(lines[0], " : info  : session  : Registered as : oxygen") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " : error : factoids : broken") {
		t.Errorf("unexpected line %q", lines[1])
	}
	if stderr.Len() != 0 {
		t.Errorf("nothing should go to stderr: %q", stderr.String())
	}
}

func TestRawIO(t *testing.T) {
	manager, _, _ := newTestManager(t, LoggingConfig{
		MethodStderr:  true,
		Level:         LogInfo,
		Types:         []string{"*"},
		ExcludedTypes: []string{TypeInput, TypeOutput},
	})
	if manager.IsLoggingRawIO() {
		t.Errorf("raw IO should not be logged")
	}

	err := manager.ApplyConfig([]LoggingConfig{{
		MethodStderr: true,
		Level:        LogDebug,
		Types:        []string{TypeInput},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !manager.IsLoggingRawIO() {
		t.Errorf("raw IO should be logged")
	}
}

func TestFileLogging(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "oxygen.log")
	manager, stdout, _ := newTestManager(t, LoggingConfig{
		MethodFile: true,
		Filename:   filename,
		Level:      LogDebug,
		Types:      []string{"*"},
	})
	manager.Warning("bot", "Reconnecting")
	if err := manager.Close(); err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(contents), " : warn  : bot      : Reconnecting\n") {
		t.Errorf("unexpected log file contents %q", contents)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should go to stdout: %q", stdout.String())
	}
}

func TestBadLogFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, err := NewManagerWithOutput([]LoggingConfig{{
		MethodFile: true,
		Filename:   filepath.Join(t.TempDir(), "missing", "oxygen.log"),
		Types:      []string{"*"},
	}}, &stdout, &stderr)
	if err == nil {
		t.Errorf("expected an error opening the log file")
	}
}
