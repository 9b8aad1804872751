package chunk_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/MasterOfBinary/gochunk/chunk"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"positive", 300, false},
		{"one", 1, false},
		{"missing", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{ChunkSize: tt.size}.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidChunkSize)
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("chunksize: 300\n"))
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.ChunkSize)
	})

	t.Run("missing chunksize", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("{}\n"))
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("chunksize: 3\nmaxtime: 5s\n"))
		require.Error(t, err)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "yaml", cfgErr.Field)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("chunksize: lots\n"))
		assert.Error(t, err)
	})

	t.Run("usable by NewWithConfig", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("chunksize: 4"))
		require.NoError(t, err)
		c, err := NewWithConfig[string](cfg, newRecorder[[]string]())
		require.NoError(t, err)
		assert.Equal(t, 4, c.Size())
	})
}
