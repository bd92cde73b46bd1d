// log/log_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, test := range []struct {
		s     string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	} {
		if l := ParseLevel(test.s); l != test.level {
			t.Errorf("ParseLevel(%q) got %v, expected %v", test.s, l, test.level)
		}
	}
}

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// None of these should crash.
	lg.Debug("debug")
	lg.Debugf("debug %d", 1)
	lg.Info("info")
	lg.Infof("info %d", 1)
	if lg.With("a", 1) != nil {
		t.Errorf("With on nil logger should return nil")
	}
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	lg := New("warn", dir)
	lg.Info("not logged")
	lg.With(slog.String("pass", "hud")).Warn("logged", slog.Int("quads", 7))

	f, err := os.Open(lg.LogFile)
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer f.Close()

	var found bool
	sc := bufio.NewScanner(f)
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("%s: %v", sc.Text(), err)
		}
		switch rec["msg"] {
		case "not logged":
			t.Errorf("info record written at warn level")
		case "logged":
			found = true
			if rec["pass"] != "hud" {
				t.Errorf("pass attribute got %v, expected hud", rec["pass"])
			}
			if q, ok := rec["quads"].(float64); !ok || q != 7 {
				t.Errorf("quads attribute got %v, expected 7", rec["quads"])
			}
			if _, ok := rec["callstack"]; !ok {
				t.Errorf("missing callstack attribute")
			}
		}
	}
	if !found {
		t.Errorf("warning not found in log file")
	}
}

func TestCallstack(t *testing.T) {
	fr := func() []StackFrame { return Callstack(nil) }()
	if len(fr) == 0 {
		t.Fatalf("empty callstack")
	}
	if !strings.HasSuffix(fr[0].File, ".go") {
		t.Errorf("unexpected file %q", fr[0].File)
	}
}
