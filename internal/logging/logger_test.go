package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridbind/gridbind/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	uu := map[string]struct {
		s   string
		e   zerolog.Level
		err bool
	}{
		"empty":   {e: zerolog.InfoLevel},
		"debug":   {s: "debug", e: zerolog.DebugLevel},
		"upper":   {s: " WARN ", e: zerolog.WarnLevel},
		"warning": {s: "warning", e: zerolog.WarnLevel},
		"bogus":   {s: "loud", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			lvl, err := logging.ParseLevel(u.s)
			if u.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.e, lvl)
		})
	}
}

func TestMakeWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New().FromWriter(&buf).WithLevel("warn").Make()
	require.NoError(t, err)

	l.Logger.Info().Msg("skipped")
	l.Logger.Warn().Str("list", "orders").Msg("suspended")

	out := bytes.TrimSpace(buf.Bytes())
	assert.Equal(t, 1, bytes.Count(out, []byte("\n"))+1)
	assert.Equal(t, "warn", gjson.GetBytes(out, "level").String())
	assert.Equal(t, "orders", gjson.GetBytes(out, "list").String())
	assert.True(t, gjson.GetBytes(out, "time").Exists())
	assert.NoError(t, l.Close())
}

func TestMakeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "gridbind.log")
	l, err := logging.New().FromPath(path).WithLevel("debug").Make()
	require.NoError(t, err)

	l.Logger.Debug().Msg("bound")
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bound", gjson.GetBytes(raw, "message").String())
}

func TestMakeBadLevel(t *testing.T) {
	_, err := logging.New().WithLevel("chatty").Make()
	assert.Error(t, err)
}
