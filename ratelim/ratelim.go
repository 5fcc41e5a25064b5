package ratelim

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles chat sends per actor so one widget cannot flood the
// shared message log.
type RateLimiter struct {
	actors map[string]*rate.Limiter
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
}

// NewRateLimiter allows one send per second with a small burst.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		actors: make(map[string]*rate.Limiter),
		limit:  rate.Every(time.Second),
		burst:  5,
	}
}

func (rl *RateLimiter) getLimiter(actorID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.actors[actorID]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.actors[actorID] = limiter

	// Clean up idle actors after 10 minutes
	go func() {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		delete(rl.actors, actorID)
		rl.mu.Unlock()
	}()

	return limiter
}

// Allow reports whether the actor may send now.
func (rl *RateLimiter) Allow(actorID string) bool {
	return rl.getLimiter(actorID).Allow()
}
