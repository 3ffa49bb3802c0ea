package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"u2s/config"
	"u2s/state"
)

// exampleList is the canonical mixed input: two domain rules (one with
// style injection), network filter and global rule.
const exampleList = "example.com##.ad-banner\n" +
	"example.com##.popup:style(display: none !important; opacity: 0)\n" +
	"||tracking.com/pixel.gif$image\n" +
	"##.global-advertisement\n"

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	env := &state.LocalEnv{
		Cfg:    cfg,
		Log:    zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		Stdout: &bytes.Buffer{},
	}
	return state.ContextWith(context.Background(), env), env
}

func writeList(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}
