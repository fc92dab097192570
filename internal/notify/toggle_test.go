package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSaver struct {
	err  error
	seen []bool
}

func (s *stubSaver) SetNotify(_ context.Context, on bool) error {
	s.seen = append(s.seen, on)
	return s.err
}

func TestToggle_Success(t *testing.T) {
	s := &stubSaver{}
	tg := NewToggle(false, s)

	msg, err := tg.Set(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.True(t, tg.Checked())
	assert.Equal(t, []bool{true}, s.seen)
}

func TestToggle_FailureReverts(t *testing.T) {
	s := &stubSaver{err: errors.New("database is locked")}
	tg := NewToggle(true, s)

	msg, err := tg.Set(context.Background(), false)
	assert.Error(t, err)
	assert.Equal(t, FailureMessage, msg)
	assert.True(t, tg.Checked())
	assert.Equal(t, []bool{false}, s.seen)
}

func TestToggle_RecoversAfterFailure(t *testing.T) {
	s := &stubSaver{err: errors.New("busy")}
	tg := NewToggle(false, s)

	_, err := tg.Set(context.Background(), true)
	require.Error(t, err)
	assert.False(t, tg.Checked())

	s.err = nil
	_, err = tg.Set(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, tg.Checked())
}
