package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "debug", cfg: Config{Level: "debug"}},
		{name: "bad_level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.log")
	l, err := New(Config{Level: "warn", File: path, MaxSize: 1})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("queue is full, dropping value")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "expected exactly one JSON line, got %q", data)
	assert.Equal(t, "queue is full, dropping value", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
}
