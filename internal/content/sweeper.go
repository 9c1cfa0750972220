package content

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// StartSweeper starts a background loop that evicts expired entries on a
// fixed interval. It touches only the content cache; repository freshness is
// evaluated lazily on access, never proactively.
//
// Returns a stop function that is safe to call multiple times and blocks
// until the sweeper goroutine has fully stopped.
func (c *Cache) StartSweeper(interval time.Duration, log logrus.FieldLogger) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := c.Sweep(); dropped > 0 && log != nil {
					log.WithField("evicted", dropped).Debug("content cache sweep")
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
