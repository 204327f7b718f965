package shortcuts

import (
	"context"
	"testing"

	"urlcopier/pkg/copier"
	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCopier struct {
	calls []string
}

func (f *fakeCopier) CopyDefault(ctx context.Context) (copier.Outcome, error) {
	f.calls = append(f.calls, "default")
	return copier.Outcome{Copied: true}, nil
}

func (f *fakeCopier) CopySlot(ctx context.Context, slot models.Slot) (copier.Outcome, error) {
	f.calls = append(f.calls, "slot"+slot.String())
	return copier.Outcome{Copied: true}, nil
}

func TestDispatch(t *testing.T) {
	c := &fakeCopier{}
	opened := 0
	d := Dispatcher{
		Copier: c,
		OpenPalette: func(ctx context.Context) (copier.Outcome, error) {
			opened++
			return copier.Outcome{}, nil
		},
	}

	for _, name := range Names() {
		_, err := d.Dispatch(context.Background(), name)
		require.NoError(t, err, name)
	}

	assert.Equal(t, []string{"default", "slot1", "slot2"}, c.calls)
	assert.Equal(t, 1, opened)
}

func TestDispatchWithoutPalette(t *testing.T) {
	d := Dispatcher{Copier: &fakeCopier{}}
	out, err := d.Dispatch(context.Background(), OpenPalette)
	require.NoError(t, err)
	assert.False(t, out.Copied)
}

func TestDispatchUnknown(t *testing.T) {
	d := Dispatcher{Copier: &fakeCopier{}}
	_, err := d.Dispatch(context.Background(), "copy-slot-3")
	assert.True(t, apperrors.IsExitCode(err, apperrors.ExitCodeValidation))
}

func TestCommandsReturnsCopy(t *testing.T) {
	cmds := Commands()
	require.Len(t, cmds, 4)
	cmds[0].Name = "changed"
	assert.Equal(t, CopyLastUsed, Commands()[0].Name)
}
