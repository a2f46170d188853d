package question

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

const noiseLimit = 1000

type listRule struct {
	prompt     string
	points     int
	selects    func(x int, numbers []int) bool
	candidates []int
	// anchors always satisfy selects; one is swapped in when a draw has none.
	anchors []int
}

var listRules = map[Kind]listRule{
	KindMaximum: {
		prompt:     "which of the following numbers is the largest: ",
		points:     40,
		selects:    func(x int, numbers []int) bool { return x == slices.Max(numbers) },
		candidates: seq(1, 100, func(i int) int { return i }),
	},
	KindSquareCube: {
		prompt:     "which of the following numbers is both a square and a cube: ",
		points:     60,
		selects:    func(x int, _ []int) bool { return isSquare(x) && isCube(x) },
		candidates: dedupe(append(sixthPowers(), seq(1, 50, func(i int) int { return i * i })...)),
		anchors:    sixthPowers(),
	},
	KindPrimes: {
		prompt:     "which of the following numbers are primes: ",
		points:     60,
		selects:    func(x int, _ []int) bool { return isPrime(x) },
		candidates: firstPrimes(100),
	},
}

// NumberList shows a list of numbers and asks for the ones matching the
// variant's predicate. The predicate is evaluated over Numbers, so the
// answer does not depend on how the list was ordered for display.
type NumberList struct {
	kind    Kind
	Numbers []int
}

func NewMaximum(numbers ...int) *NumberList    { return newNumberList(KindMaximum, numbers) }
func NewSquareCube(numbers ...int) *NumberList { return newNumberList(KindSquareCube, numbers) }
func NewPrimes(numbers ...int) *NumberList     { return newNumberList(KindPrimes, numbers) }

func newNumberList(kind Kind, numbers []int) *NumberList {
	return &NumberList{kind: kind, Numbers: slices.Clone(numbers)}
}

// generateList mixes 1-3 noise numbers with 2-4 variant candidates. All
// displayed values are distinct.
func generateList(kind Kind) Generator {
	return func(r Rand, _ Player) Type {
		rule := listRules[kind]
		noise := 1 + r.IntN(3)
		picks := 2 + r.IntN(3)

		pool := slices.Clone(rule.candidates)
		r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		picked := pool[:min(picks, len(pool))]
		if len(rule.anchors) > 0 && !slices.ContainsFunc(picked, func(x int) bool { return rule.selects(x, picked) }) {
			anchor := sample(r, rule.anchors)
			if !slices.Contains(picked, anchor) {
				picked[0] = anchor
			}
		}

		numbers := slices.Clone(picked)
		for added := 0; added < noise; {
			v := r.IntN(noiseLimit)
			if slices.Contains(numbers, v) {
				continue
			}
			numbers = append(numbers, v)
			added++
		}
		r.Shuffle(len(numbers), func(i, j int) { numbers[i], numbers[j] = numbers[j], numbers[i] })
		return &NumberList{kind: kind, Numbers: numbers}
	}
}

func (q *NumberList) Kind() Kind  { return q.kind }
func (q *NumberList) Points() int { return listRules[q.kind].points }

func (q *NumberList) Text() string {
	return listRules[q.kind].prompt + joinInts(q.Numbers)
}

// Selected returns the numbers matching the predicate, in list order.
func (q *NumberList) Selected() []int {
	rule := listRules[q.kind]
	var out []int
	for _, x := range q.Numbers {
		if rule.selects(x, q.Numbers) {
			out = append(out, x)
		}
	}
	return out
}

func (q *NumberList) CorrectAnswer() string { return joinInts(q.Selected()) }

func (q *NumberList) Accepts(answer string) bool { return SetMatch(answer, q.CorrectAnswer()) }

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func seq(from, to int, f func(int) int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, f(i))
	}
	return out
}

func dedupe(xs []int) []int {
	seen := make(map[int]bool, len(xs))
	out := xs[:0]
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// sixthPowers lists the cubes of 1..100 that are also squares.
func sixthPowers() []int {
	var out []int
	for i := 1; i <= 100; i++ {
		if c := i * i * i; isSquare(c) {
			out = append(out, c)
		}
	}
	return out
}

func isSquare(x int) bool {
	return x >= 0 && intRoot(x, 2) != -1
}

func isCube(x int) bool {
	return x >= 0 && intRoot(x, 3) != -1
}

// intRoot returns the exact integer k-th root of x, or -1.
func intRoot(x, k int) int {
	guess := int(math.Round(math.Pow(float64(x), 1/float64(k))))
	for r := max(guess-1, 0); r <= guess+1; r++ {
		p := 1
		for i := 0; i < k; i++ {
			p *= r
		}
		if p == x {
			return r
		}
	}
	return -1
}

func isPrime(x int) bool {
	if x < 2 {
		return false
	}
	for d := 2; d*d <= x; d++ {
		if x%d == 0 {
			return false
		}
	}
	return true
}

func firstPrimes(n int) []int {
	out := make([]int, 0, n)
	for x := 2; len(out) < n; x++ {
		if isPrime(x) {
			out = append(out, x)
		}
	}
	return out
}
