package logutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demoOptions struct {
	Rows   int
	Cols   int
	Inner  struct{ Seed uint64 }
	hidden string
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	setOutput(&buf, WARN)
	defer setOutput(&bytes.Buffer{}, INFO)

	Debug("debug %d", 1)
	Info("info %d", 2)
	assert.Empty(t, buf.String())

	Warn("warn %d", 3)
	Error("error %d", 4)
	out := buf.String()
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERR] error 4")
	// 行号信息指向调用方
	assert.Contains(t, out, "logutil_test.go:")

	SetLogLevel(DEBUG)
	Debug("now visible")
	assert.Contains(t, buf.String(), "[DBG] now visible")
}

func TestFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	setOutput(&buf, DEBUG)
	defer setOutput(&bytes.Buffer{}, INFO)

	opts := demoOptions{Rows: 3, Cols: 4, hidden: "x"}
	opts.Inner.Seed = 9
	Info("opts:\n%v", opts)
	Info("list %v", []int{1, 2, 3})

	out := buf.String()
	assert.Contains(t, out, "Rows: 3")
	assert.Contains(t, out, "Inner:\n    Seed: 0x9")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "list [1,2,3]")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" Warn ", WARN},
		{"error", ERROR},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestLevelFlagValue(t *testing.T) {
	level := WARN
	require.NoError(t, level.Set("debug"))
	assert.Equal(t, DEBUG, level)
	assert.Equal(t, "DEBUG", level.String())
	assert.Equal(t, "loglevel", level.Type())
	assert.Error(t, level.Set("loud"))
	assert.Equal(t, DEBUG, level)
	assert.Equal(t, "Level(9)", Level(9).String())
}
