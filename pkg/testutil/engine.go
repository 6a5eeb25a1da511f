package testutil

import (
	"sync"

	"github.com/arthur-debert/rulebook/pkg/matcher"
)

// SpyEngine wraps an engine and records every pattern it compiles and every
// match it evaluates
type SpyEngine struct {
	inner matcher.Engine

	mu       sync.Mutex
	compiled []string
	matched  int
}

// NewSpyEngine wraps inner, defaulting to regexp2
func NewSpyEngine(inner matcher.Engine) *SpyEngine {
	if inner == nil {
		inner = matcher.NewRegexp2Engine(0)
	}
	return &SpyEngine{inner: inner}
}

// Name implements matcher.Engine
func (s *SpyEngine) Name() string { return "spy:" + s.inner.Name() }

// Compile implements matcher.Engine
func (s *SpyEngine) Compile(expr string) (matcher.Pattern, error) {
	s.mu.Lock()
	s.compiled = append(s.compiled, expr)
	s.mu.Unlock()

	p, err := s.inner.Compile(expr)
	if err != nil {
		return nil, err
	}
	return spyPattern{spy: s, inner: p}, nil
}

// Compiled returns the patterns compiled so far
func (s *SpyEngine) Compiled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.compiled...)
}

// Evaluations counts MatchString calls
func (s *SpyEngine) Evaluations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matched
}

type spyPattern struct {
	spy   *SpyEngine
	inner matcher.Pattern
}

func (p spyPattern) MatchString(text string) (bool, error) {
	p.spy.mu.Lock()
	p.spy.matched++
	p.spy.mu.Unlock()
	return p.inner.MatchString(text)
}
