package objarena

import (
	"flag"

	"github.com/pkg/errors"
)

// Config holds the defaults applied to arena contexts opened on a Registry.
type Config struct {
	SlabSize      int  `yaml:"slab_size"`
	StrictEscapes bool `yaml:"strict_escapes"`
}

// DefaultConfig returns the configuration used by the default registry.
func DefaultConfig() Config {
	return Config{SlabSize: DefaultSlabSize}
}

// RegisterFlags registers the flags under the "arena." prefix.
func (c *Config) RegisterFlags(f *flag.FlagSet) {
	c.RegisterFlagsWithPrefix("arena.", f)
}

func (c *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.IntVar(&c.SlabSize, prefix+"slab-size", DefaultSlabSize, "Size in bytes of each slab of a new arena. No single allocation may exceed it.")
	f.BoolVar(&c.StrictEscapes, prefix+"strict-escapes", false, "Return an error from closing an arena context while objects allocated in it are still alive, instead of only logging a warning.")
}

func (c Config) Validate() error {
	if c.SlabSize <= 0 {
		return errors.Wrapf(ErrInvalidSlabSize, "invalid arena slab size %d", c.SlabSize)
	}
	return nil
}
