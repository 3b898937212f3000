package timer

import (
	"context"
	"math/rand"
	"time"

	"github.com/lthibault/jitterbug"

	log "github.com/sirupsen/logrus"
)

type Interval struct {
	Every  time.Duration
	Jitter time.Duration
}

type tickerJitter struct {
	MaxJitter time.Duration
}

func (j tickerJitter) Jitter(d time.Duration) time.Duration {
	if j.MaxJitter >= d {
		log.Fatal("tickerJitter: MaxJitter is greater than duration")
	}

	if j.MaxJitter == 0 {
		return d
	}

	return d + (time.Duration(rand.Int63n(int64(2*j.MaxJitter))) - j.MaxJitter)
}

// RunEvery runs f once immediately and then on every tick. Exits when the
// context is cancelled or when f() returns an error.
func RunEvery(ctx context.Context, interval Interval, f func(ctx context.Context) error) error {
	if err := f(ctx); err != nil {
		log.Errorf("RunEvery: initial run returned error: %v", err)
		return err
	}

	j := jitterbug.New(interval.Every, &tickerJitter{MaxJitter: interval.Jitter})
	defer j.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-j.C:
			if err := f(ctx); err != nil {
				log.Errorf("RunEvery: function returned error: %v", err)
				return err
			}
		}
	}
}
