package objarena

import (
	"flag"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigFlags(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, fs.Parse([]string{"-arena.slab-size=128", "-arena.strict-escapes"}))
	assert.Equal(t, Config{SlabSize: 128, StrictEscapes: true}, cfg)
}

func TestConfigYAML(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte("strict_escapes: true\n"), &cfg))
	assert.Equal(t, Config{SlabSize: DefaultSlabSize, StrictEscapes: true}, cfg)

	require.NoError(t, yaml.Unmarshal([]byte("slab_size: 256\n"), &cfg))
	assert.Equal(t, 256, cfg.SlabSize)
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"default":  {cfg: DefaultConfig()},
		"tiny":     {cfg: Config{SlabSize: 1}},
		"zero":     {cfg: Config{SlabSize: 0}, wantErr: true},
		"negative": {cfg: Config{SlabSize: -64}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidSlabSize))
			assert.Contains(t, err.Error(), "invalid arena slab size")
		})
	}
}
