package util

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource yields integers in [min, max]. Injected wherever output must
// be reproducible in tests.
type RandomSource interface {
	Intn(min, max int) int
}

type mathRandSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a time-seeded source safe for concurrent use.
func NewRandomSource() RandomSource {
	return &mathRandSource{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *mathRandSource) Intn(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rnd.Intn(max-min+1)
}

// FixedRandomSource replays Values in order and then repeats the last one.
type FixedRandomSource struct {
	Values []int
	next   int
}

func (s *FixedRandomSource) Intn(min, max int) int {
	if len(s.Values) == 0 {
		return min
	}
	v := s.Values[len(s.Values)-1]
	if s.next < len(s.Values) {
		v = s.Values[s.next]
		s.next++
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return defaultSource.Intn(min, max)
}

var defaultSource = NewRandomSource()
