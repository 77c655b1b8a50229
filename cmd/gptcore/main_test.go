package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zen-systems/gptcore/pkg/transport"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("OPENAI_API_KEY", "")
	t.Chdir(dir)
	root := rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestDryRunCommands(t *testing.T) {
	tests := [][]string{
		{"models"},
		{"models", "--family", "speech"},
		{"models", "--yaml", "--family", "embedding"},
		{"models", "--validate"},
		{"ask", "--dry-run", "hello"},
		{"ask", "--dry-run", "--model", "o3", "--effort", "minimal", "hello"},
		{"ask", "--dry-run", "--previous", "resp_abc123", "and then?"},
		{"embed", "--dry-run", "--dimensions", "16", "hello"},
		{"moderate", "--dry-run", "--filter", "positive", "hello"},
	}
	for _, args := range tests {
		if err := run(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
}

func TestValidationFailsWithoutNetwork(t *testing.T) {
	tests := [][]string{
		{"ask", "--dry-run", "--model", "gpt-5", "--temperature", "0.5", "hi"},
		{"ask", "--dry-run", "--previous", "chatcmpl-1", "hi"},
		{"models", "--family", "nope"},
		{"speak", "--dry-run", "--model", "tts-1", "--voice", "marin", "hi"},
		{"moderate", "--dry-run", "--filter", "some", "hi"},
	}
	for _, args := range tests {
		if err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestMissingKeyWithoutDryRun(t *testing.T) {
	if err := run(t, "ask", "hello"); err == nil {
		t.Fatalf("expected an error without OPENAI_API_KEY")
	}
}

func TestSpeakAndRatingRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hi.mp3")
	if err := run(t, "speak", "--dry-run", "--out", out, "hi there"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if data, err := os.ReadFile(out); err != nil || len(data) == 0 {
		t.Fatalf("expected audio file, err=%v", err)
	}

	saved := filepath.Join(t.TempDir(), "rating.bin")
	if err := run(t, "moderate", "--dry-run", "--save", saved, "hi"); err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if err := run(t, "rating", saved); err != nil {
		t.Fatalf("rating: %v", err)
	}
}

func TestInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := run(t, "init", "--path", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := run(t, "--config", path, "ask", "--dry-run", "hello"); err != nil {
		t.Fatalf("ask with written config: %v", err)
	}
	if err := run(t, "init", "--path", path); err == nil {
		t.Fatalf("expected init to refuse overwrite")
	}
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", &transport.Error{Op: "create response", Status: 429}, "rate limiting"},
		{"wrapped server error", fmt.Errorf("ask: %w", &transport.Error{Status: 503}), "temporary"},
		{"timeout", context.DeadlineExceeded, "temporary"},
		{"bad request", &transport.Error{Status: 400}, ""},
		{"validation", errors.New("temperature out of range"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorHint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Fatalf("unexpected hint %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Fatalf("hint %q does not mention %q", got, tt.want)
			}
		})
	}
}
