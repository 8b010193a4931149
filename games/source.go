package games

import (
	"math/rand"
	"sync"
	"time"

	"casino/models"
)

// OutcomeSource produces the externally-drawn result per game type.
// Settlement governs what happens to ownership and payouts given a
// drawn outcome; the draw itself is pluggable.
type OutcomeSource interface {
	// DiceRoll returns a face in 1..sides.
	DiceRoll(sides int) int

	// WheelSpin returns a pocket in 0..36.
	WheelSpin() int

	// ReelSpin returns three independently-drawn reel symbols.
	ReelSpin() []string

	// DealCards draws n cards from a 52-card deck, excluding any
	// already-dealt cards.
	DealCards(n int, exclude []models.Card) []models.Card

	// PickEntrant returns a uniform index in 0..n-1 for the slots
	// ownership draw.
	PickEntrant(n int) int
}

type randSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource returns an OutcomeSource backed by math/rand, seeded
// from the wall clock.
func NewRandSource() OutcomeSource {
	return &randSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSource returns a deterministic OutcomeSource for tests
func NewSeededSource(seed int64) OutcomeSource {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) DiceRoll(sides int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(sides) + 1
}

func (s *randSource) WheelSpin() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(WheelPockets)
}

func (s *randSource) ReelSpin() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbols := SlotSymbols()
	reels := make([]string, 3)
	for i := range reels {
		reels[i] = symbols[s.rng.Intn(len(symbols))]
	}
	return reels
}

func (s *randSource) DealCards(n int, exclude []models.Card) []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := make(map[models.Card]bool, len(exclude))
	for _, c := range exclude {
		used[c] = true
	}

	deck := make([]models.Card, 0, 52)
	for _, suit := range []string{"s", "h", "d", "c"} {
		for rank := 2; rank <= 14; rank++ {
			card := models.Card{Rank: rank, Suit: suit}
			if !used[card] {
				deck = append(deck, card)
			}
		}
	}

	s.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	if n > len(deck) {
		n = len(deck)
	}
	return deck[:n]
}

func (s *randSource) PickEntrant(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
