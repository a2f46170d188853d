package question

import (
	"errors"
	"sync"
)

// ErrRoundNotSupported is returned by sources that cannot advance rounds.
var ErrRoundNotSupported = errors.New("round advancement not supported; replace the question source instead")

// Source hands out questions for players.
type Source interface {
	NextQuestion(p Player) *Question
	AdvanceRound() (int, error)
	Round() int
}

// Generator draws params for one variant.
type Generator func(r Rand, p Player) Type

type poolEntry struct {
	kind     Kind
	generate Generator
}

// Factory selects question variants from a pool that widens every round.
// The pool order matters: round n draws uniformly from the first 2n entries.
type Factory struct {
	rng  Rand
	pool []poolEntry

	mu    sync.RWMutex
	round int
}

var _ Source = (*Factory)(nil)

// NewFactory builds the round-based factory. Banks must already be validated.
func NewFactory(banks *Banks, rng Rand) *Factory {
	finnkode := generateFinnkode(banks.Listings)
	return &Factory{
		rng:   rng,
		round: 1,
		pool: []poolEntry{
			{KindAddition, generateBinary(KindAddition)},
			{KindMaximum, generateList(KindMaximum)},
			{KindMultiplication, generateBinary(KindMultiplication)},
			{KindSquareCube, generateList(KindSquareCube)},
			{KindGeneralKnowledge, generateGeneralKnowledge(banks.Trivia)},
			{KindPrimes, generateList(KindPrimes)},
			{KindFinnkode, finnkode},
			{KindSubtraction, generateBinary(KindSubtraction)},
			{KindFibonacci, generateFibonacci},
			{KindPower, generateBinary(KindPower)},
			{KindAdditionAddition, generateTernary(KindAdditionAddition)},
			{KindFinnkode, finnkode},
			{KindAdditionMultiplication, generateTernary(KindAdditionMultiplication)},
			{KindMultiplicationAddition, generateTernary(KindMultiplicationAddition)},
			{KindAnagram, generateAnagram(banks.Anagrams)},
			{KindScrabble, generateScrabble(banks.ScrabbleWords)},
		},
	}
}

// Kinds lists the pool in declared order.
func (f *Factory) Kinds() []Kind {
	kinds := make([]Kind, len(f.pool))
	for i, e := range f.pool {
		kinds[i] = e.kind
	}
	return kinds
}

// Round returns the current round, starting at 1.
func (f *Factory) Round() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.round
}

// AdvanceRound moves to the next round and returns it.
func (f *Factory) AdvanceRound() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.round++
	return f.round, nil
}

// NextQuestion draws a variant from the current window and instantiates it.
func (f *Factory) NextQuestion(p Player) *Question {
	round := f.Round()
	entry := f.pool[f.pick(round)]
	return New(entry.generate(f.rng, p), round)
}

// pick returns a pool index in [0, round*2-1], clamped to the pool.
func (f *Factory) pick(round int) int {
	end := min(round*2-1, len(f.pool)-1)
	return f.rng.IntN(end + 1)
}

// WarmupSource asks every player for its own name. It is replaced, not
// advanced, when the real game starts.
type WarmupSource struct{}

var _ Source = WarmupSource{}

func (WarmupSource) NextQuestion(p Player) *Question { return New(NewWarmup(p), 0) }
func (WarmupSource) AdvanceRound() (int, error)      { return 0, ErrRoundNotSupported }
func (WarmupSource) Round() int                      { return 0 }
