package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	}
	for in, want := range cases {
		l := New(in, "json")
		if !l.Core().Enabled(want) {
			t.Fatalf("level %q: %v not enabled", in, want)
		}
		if want > zapcore.DebugLevel && l.Core().Enabled(want-1) {
			t.Fatalf("level %q: %v should be disabled", in, want-1)
		}
	}
}
