package checkout

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// NumberGenerator mints order numbers of the form ORD-<8 digits>-<3 digits>,
// built from the last eight digits of the Unix millisecond clock and a random
// part. Numbers minted within the same millisecond get a "-<n>" suffix so a
// generator never hands out the same number twice.
type NumberGenerator struct {
	mu         sync.Mutex
	now        func() time.Time
	random     func(n int) int
	lastMillis int64
	seq        int
}

// NewNumberGenerator returns a generator backed by the wall clock.
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{
		now:    time.Now,
		random: rand.IntN,
	}
}

// Next returns a fresh order number.
func (g *NumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixMilli()
	if millis == g.lastMillis {
		g.seq++
	} else {
		g.lastMillis = millis
		g.seq = 0
	}

	number := fmt.Sprintf("ORD-%08d-%03d", millis%100_000_000, g.random(1000))
	if g.seq > 0 {
		number = fmt.Sprintf("%s-%d", number, g.seq)
	}
	return number
}
