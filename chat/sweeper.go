package chat

import (
	"context"
	"time"

	"food-delivery-admin/logger"
)

// Ticker starts a periodic tick and returns its channel and stop function.
type Ticker func(d time.Duration) (<-chan time.Time, func())

func RealTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

type sweepable interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweeper runs the inactivity check every interval until its context ends.
type Sweeper struct {
	ctl      sweepable
	interval time.Duration
	ticker   Ticker
	log      logger.ILogger
}

func NewSweeper(ctl sweepable, interval time.Duration, ticker Ticker, log logger.ILogger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if ticker == nil {
		ticker = RealTicker
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Sweeper{ctl: ctl, interval: interval, ticker: ticker, log: log}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticks, stop := s.ticker(s.interval)
	defer stop()

	s.log.Info("chat sweeper started", logger.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("chat sweeper stopped")
			return
		case <-ticks:
			closed, err := s.ctl.Sweep(ctx)
			if err != nil {
				s.log.Error("chat sweep failed", logger.Error(err))
			}
			if closed > 0 {
				s.log.Info("chat sweep closed idle chats", logger.Int("closed", closed))
			}
		}
	}
}
