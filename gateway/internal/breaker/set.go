package breaker

import "sync"

// Set hands out one Breaker per name for the life of the process.
type Set struct {
	cfg  Config
	opts []Option

	mu       sync.Mutex
	breakers map[string]*Breaker
}

func NewSet(cfg Config, opts ...Option) *Set {
	return &Set{
		cfg:      cfg,
		opts:     opts,
		breakers: make(map[string]*Breaker),
	}
}

func (s *Set) Get(name string) *Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.breakers[name]; ok {
		return b
	}
	b := New(name, s.cfg, s.opts...)
	s.breakers[name] = b
	return b
}

// Snapshot returns the current state of every breaker created so far.
func (s *Set) Snapshot() map[string]State {
	s.mu.Lock()
	breakers := make([]*Breaker, 0, len(s.breakers))
	for _, b := range s.breakers {
		breakers = append(breakers, b)
	}
	s.mu.Unlock()

	out := make(map[string]State, len(breakers))
	for _, b := range breakers {
		out[b.Name()] = b.State()
	}
	return out
}
