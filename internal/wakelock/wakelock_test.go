package wakelock

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeHelper struct {
	starts  int
	stops   int
	failing bool
}

func (f *fakeHelper) start(context.Context) (func() error, error) {
	f.starts++
	if f.failing {
		return nil, errors.New("no helper")
	}
	return func() error { f.stops++; return nil }, nil
}

func TestInhibitor_RequestRelease(t *testing.T) {
	h := &fakeHelper{}
	l := NewInhibitor(zerolog.Nop(), h.start)

	l.Request(context.Background())
	l.Request(context.Background())
	assert.Equal(t, 1, h.starts, "second request while held is a no-op")
	assert.True(t, l.Held())

	l.Release()
	l.Release()
	assert.Equal(t, 1, h.stops)
	assert.False(t, l.Held())
}

func TestInhibitor_FailureIsSwallowed(t *testing.T) {
	h := &fakeHelper{failing: true}
	l := NewInhibitor(zerolog.Nop(), h.start)

	l.Request(context.Background())
	assert.False(t, l.Held())
	l.Release()
	assert.Zero(t, h.stops)
}

func TestUnsupportedPlatform(t *testing.T) {
	_, err := platformStarter("plan9")(context.Background())
	var ue *UnsupportedError
	assert.ErrorAs(t, err, &ue)
}

func TestNoop(t *testing.T) {
	var l Locker = Noop{}
	l.Request(context.Background())
	l.Release()
}
