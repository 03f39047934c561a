package objarena

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/objarena/host"
)

func TestDefaultRegistry(t *testing.T) {
	require.Same(t, Default(), Default())
	assert.Equal(t, RootClassName, Default().Base().Name())
	assert.Nil(t, Default().Base().Base())

	cls, err := Default().NewClass("DefaultNode", nil)
	require.NoError(t, err)
	err = Default().Scope([]host.Type{cls}, func(ctx *Context) error {
		o, err := cls.New()
		if err != nil {
			return err
		}
		defer o.DecRef()
		assert.Same(t, ctx.Arena(), o.Arena())
		assert.Equal(t, DefaultSlabSize, ctx.Arena().SlabSize())
		return nil
	})
	require.NoError(t, err)
}

func TestNewClass(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	base := newTestClass(t, reg, "Base", nil)
	assert.Same(t, reg.Base(), base.Base())
	assert.Equal(t, "Base", base.Name())

	leaf := newTestClass(t, reg, "Leaf", base)
	assert.True(t, leaf.IsSubclassOf(base))
	assert.True(t, leaf.IsSubclassOf(reg.Base()))
	assert.True(t, leaf.IsSubclassOf(leaf))
	assert.False(t, base.IsSubclassOf(leaf))

	_, err := reg.NewClass("Slotted", base, WithSlots("x", "y"))
	assert.Equal(t, ErrSlotsNotSupported, err)

	other, _, _ := newTestRegistry(t)
	_, err = reg.NewClass("Mixed", other.Base())
	var notAlloc *NotAllocatableError
	require.True(t, errors.As(err, &notAlloc))
	assert.Equal(t, RootClassName, notAlloc.Type)
}

func TestNewRegistryDefaults(t *testing.T) {
	reg := NewRegistry(Config{}, nil, nil)
	cls := newTestClass(t, reg, "Node", nil)

	ctx, err := reg.OpenClass(cls)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlabSize, ctx.Arena().SlabSize())
	require.NoError(t, ctx.Close())
}

func TestRegistryMetricsRegistration(t *testing.T) {
	reg, _, promReg := newTestRegistry(t)
	cls := newTestClass(t, reg, "Node", nil)

	ctx, err := reg.OpenClass(cls, WithSlabSize(1024))
	require.NoError(t, err)
	o, err := cls.New()
	require.NoError(t, err)
	assert.Equal(t, int64(1), reg.liveArenas.Load())
	assert.Equal(t, int64(sizeOf[Object]()*(1024/sizeOf[Object]())), reg.liveSlabBytes.Load())

	families, err := promReg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"objarena_arenas_created_total",
		"objarena_arenas_destroyed_total",
		"objarena_contexts_closed_total",
		"objarena_escaped_objects_total",
		"objarena_live_arenas",
		"objarena_live_slab_bytes",
		"objarena_objects_allocated_total",
		"objarena_resurrections_total",
		"objarena_unraisable_errors_total",
	}, names)

	o.DecRef()
	require.NoError(t, ctx.Close())

	// A second registry on the same Prometheus registerer collides.
	assert.Panics(t, func() {
		NewRegistry(DefaultConfig(), nil, promReg)
	})
}
