package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"food-delivery-admin/logger"
)

type MockSweepable struct {
	mock.Mock
}

func (m *MockSweepable) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestSweeperRunsOnEveryTick(t *testing.T) {
	ctl := new(MockSweepable)
	ctl.On("Sweep", mock.Anything).Return(1, nil).Once()
	ctl.On("Sweep", mock.Anything).Return(0, errors.New("store unavailable")).Once()

	ticks := make(chan time.Time)
	var stopped atomic.Bool
	ticker := func(d time.Duration) (<-chan time.Time, func()) {
		assert.Equal(t, DefaultInterval, d)
		return ticks, func() { stopped.Store(true) }
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewSweeper(ctl, 0, ticker, logger.Nop()).Run(ctx)
	}()

	ticks <- testNow
	ticks <- testNow
	cancel()
	<-done

	ctl.AssertNumberOfCalls(t, "Sweep", 2)
	assert.True(t, stopped.Load())
}
