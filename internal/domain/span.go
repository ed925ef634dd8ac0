package domain

import (
	"context"
	"sync"
	"time"
)

type Span struct {
	Name    string    `json:"name"`
	startTs time.Time `json:"-"`
	Elapsed *int64    `json:"elapsed"`
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

const ContextProfileKey = "performanceProfile"

// Profile is a list of timed spans. Strategies run concurrently, so each
// run owns its own Profile; the mutex only guards appends from helpers.
type Profile struct {
	mu      sync.Mutex
	Spans   []*Span `json:"spans"`
	startTs time.Time
	TotalMs *int64 `json:"totalMs"`
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return newProfile, newProfile.End
}

func (p *Profile) End() {
	if p == nil {
		return
	}
	t := time.Since(p.startTs).Milliseconds()
	if p.TotalMs == nil {
		p.TotalMs = &t
	}
}

// StartSpan begins a new span. A nil Profile hands back a detached span
// so callers never need to check.
func (p *Profile) StartSpan(name string) (*Span, func()) {
	s := &Span{
		Name:    name,
		startTs: time.Now(),
	}
	if p != nil {
		p.mu.Lock()
		p.Spans = append(p.Spans, s)
		p.mu.Unlock()
	}
	return s, s.End
}

func ProfileFromContext(ctx context.Context) *Profile {
	profile, _ := ctx.Value(ContextProfileKey).(*Profile)
	return profile
}
