package source

import (
	"errors"
	"sync"
	"time"
)

var ErrHostUnavailable = errors.New("host circuit is open")

// CircuitState is the state of a per-host circuit.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitHalfOpen
	CircuitOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitHalfOpen:
		return "half-open"
	case CircuitOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerSettings configures the circuit kept for every fetched host.
type BreakerSettings struct {
	// Threshold is the number of consecutive failures that opens the circuit.
	Threshold uint32
	// Cooldown is how long an open circuit rejects fetches before probing.
	Cooldown time.Duration
	// Probes is the number of fetches let through while half-open.
	Probes uint32
	// OnStateChange is called with the host whenever a circuit changes state.
	OnStateChange func(host string, from, to CircuitState)
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.Threshold == 0 {
		s.Threshold = 5
	}
	if s.Cooldown == 0 {
		s.Cooldown = 30 * time.Second
	}
	if s.Probes == 0 {
		s.Probes = 1
	}
	return s
}

// hostCircuit guards fetches against one host. A fetch is admitted by admit
// and reported back with done; reports from an earlier generation are ignored.
type hostCircuit struct {
	host     string
	settings BreakerSettings
	now      func() time.Time

	mu         sync.Mutex
	state      CircuitState
	failures   uint32
	successes  uint32
	admitted   uint32
	openedAt   time.Time
	generation uint64
}

func (c *hostCircuit) current(now time.Time) CircuitState {
	if c.state == CircuitOpen && now.Sub(c.openedAt) >= c.settings.Cooldown {
		c.transition(CircuitHalfOpen, now)
	}
	return c.state
}

func (c *hostCircuit) State() CircuitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(c.now())
}

func (c *hostCircuit) admit() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.current(c.now()) {
	case CircuitOpen:
		return c.generation, ErrHostUnavailable
	case CircuitHalfOpen:
		if c.admitted >= c.settings.Probes {
			return c.generation, ErrHostUnavailable
		}
	}
	c.admitted++
	return c.generation, nil
}

func (c *hostCircuit) done(generation uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	state := c.current(now)
	if generation != c.generation {
		return
	}

	if ok {
		c.failures = 0
		c.successes++
		if state == CircuitHalfOpen && c.successes >= c.settings.Probes {
			c.transition(CircuitClosed, now)
		}
		return
	}

	c.successes = 0
	c.failures++
	if state == CircuitHalfOpen || c.failures >= c.settings.Threshold {
		c.transition(CircuitOpen, now)
	}
}

func (c *hostCircuit) transition(to CircuitState, now time.Time) {
	if c.state == to {
		return
	}
	from := c.state
	c.state = to
	c.generation++
	c.failures, c.successes, c.admitted = 0, 0, 0
	if to == CircuitOpen {
		c.openedAt = now
	}
	if c.settings.OnStateChange != nil {
		c.settings.OnStateChange(c.host, from, to)
	}
}

// circuits hands out one hostCircuit per host.
type circuits struct {
	settings BreakerSettings
	now      func() time.Time

	mu     sync.Mutex
	byHost map[string]*hostCircuit
}

func newCircuits(settings BreakerSettings) *circuits {
	return &circuits{
		settings: settings.withDefaults(),
		now:      time.Now,
		byHost:   make(map[string]*hostCircuit),
	}
}

func (cs *circuits) get(host string) *hostCircuit {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c, ok := cs.byHost[host]
	if !ok {
		c = &hostCircuit{host: host, settings: cs.settings, now: cs.now}
		cs.byHost[host] = c
	}
	return c
}
