package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNormalizeHandle(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare handle", input: "alice", want: "alice"},
		{name: "mention", input: "@bob", want: "bob"},
		{name: "surrounding whitespace", input: "  carol \t", want: "carol"},
		{name: "https www url", input: "https://www.instagram.com/carol/", want: "carol"},
		{name: "http url without www", input: "http://instagram.com/dave", want: "dave"},
		{name: "url with query", input: "https://www.instagram.com/erin/?igsh=abc123", want: "erin"},
		{name: "url with fragment", input: "https://instagram.com/frank#top", want: "frank"},
		{name: "stray slashes", input: "/grace/", want: "grace"},
		{name: "multiple at signs", input: "@@heidi@", want: "heidi"},
		{name: "only noise", input: " @ / ", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "keeps dots and underscores", input: "some_random.user_123", want: "some_random.user_123"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHandle(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHandleIsIdempotent(t *testing.T) {
	inputs := []string{
		"alice",
		"@bob",
		"https://www.instagram.com/carol/",
		"https://instagram.com/https://instagram.com/x",
		"https:@//instagram.com/y",
		" / spaced name / ",
		"weird?thing#here",
	}

	for _, in := range inputs {
		once := NormalizeHandle(in)
		twice := NormalizeHandle(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSplitHandles(t *testing.T) {
	t.Run("newline separated with url and mention", func(t *testing.T) {
		got := SplitHandles("alice\n@bob\nhttps://www.instagram.com/carol/")
		want := []string{"alice", "bob", "carol"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("SplitHandles() = %v, want %v", got, want)
		}
	})

	t.Run("comma separated and windows newlines", func(t *testing.T) {
		got := SplitHandles("a, b,,c\r\nd\r\n")
		want := []string{"a", "b", "c", "d"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("SplitHandles() = %v, want %v", got, want)
		}
	})

	t.Run("blank input yields nothing", func(t *testing.T) {
		if got := SplitHandles(" \n , \n"); len(got) != 0 {
			t.Errorf("expected no handles, got %v", got)
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to buffer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "username", "alice").Info("checked")

		if !strings.Contains(buf.String(), "username=alice") {
			t.Errorf("expected key-value pair in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories and closes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "igx.log")
		logger, closer, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
		if err := closer.Close(); err != nil {
			t.Fatalf("failed to close log file: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written") {
			t.Errorf("expected entry in log file, got %q", data)
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		tc := map[string]log.Level{
			"debug":   log.DebugLevel,
			"WARN":    log.WarnLevel,
			"error":   log.ErrorLevel,
			"":        log.InfoLevel,
			"verbose": log.InfoLevel,
		}
		for in, want := range tc {
			if got := ParseLogLevel(in); got != want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
			}
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos, browser string
		wantName      string
		wantErr       bool
	}{
		{"darwin", "", "open", false},
		{"linux", "", "xdg-open", false},
		{"windows", "", "rundll32", false},
		{"linux", "firefox", "firefox", false},
		{"plan9", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.browser, func(t *testing.T) {
			name, args, err := browserCommand(tt.goos, tt.browser, "http://127.0.0.1:3000")
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error %v", err)
			}
			if name != tt.wantName {
				t.Errorf("expected %q, got %q", tt.wantName, name)
			}
			if !tt.wantErr && args[len(args)-1] != "http://127.0.0.1:3000" {
				t.Errorf("expected url as last argument, got %v", args)
			}
		})
	}
}
