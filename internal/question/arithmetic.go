package question

import (
	"fmt"
	"math/big"
)

const operandLimit = 20

type binaryRule struct {
	format string
	points int
	eval   func(a, b *big.Int) *big.Int
}

var binaryRules = map[Kind]binaryRule{
	KindAddition: {
		format: "what is %d plus %d",
		points: 10,
		eval:   func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) },
	},
	KindSubtraction: {
		format: "what is %d minus %d",
		points: 10,
		eval:   func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) },
	},
	KindMultiplication: {
		format: "what is %d multiplied by %d",
		points: 10,
		eval:   func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) },
	},
	// 19^19 does not fit in an int64.
	KindPower: {
		format: "what is %d to the power of %d",
		points: 20,
		eval:   func(a, b *big.Int) *big.Int { return new(big.Int).Exp(a, b, nil) },
	},
}

// BinaryMath is a two operand arithmetic question.
type BinaryMath struct {
	kind Kind
	N1   int
	N2   int
}

func NewAddition(n1, n2 int) *BinaryMath       { return &BinaryMath{kind: KindAddition, N1: n1, N2: n2} }
func NewSubtraction(n1, n2 int) *BinaryMath    { return &BinaryMath{kind: KindSubtraction, N1: n1, N2: n2} }
func NewMultiplication(n1, n2 int) *BinaryMath { return &BinaryMath{kind: KindMultiplication, N1: n1, N2: n2} }
func NewPower(n1, n2 int) *BinaryMath          { return &BinaryMath{kind: KindPower, N1: n1, N2: n2} }

func generateBinary(kind Kind) Generator {
	return func(r Rand, _ Player) Type {
		return &BinaryMath{kind: kind, N1: r.IntN(operandLimit), N2: r.IntN(operandLimit)}
	}
}

func (q *BinaryMath) Kind() Kind  { return q.kind }
func (q *BinaryMath) Points() int { return binaryRules[q.kind].points }

func (q *BinaryMath) Text() string {
	return fmt.Sprintf(binaryRules[q.kind].format, q.N1, q.N2)
}

func (q *BinaryMath) CorrectAnswer() string {
	return binaryRules[q.kind].eval(big.NewInt(int64(q.N1)), big.NewInt(int64(q.N2))).String()
}

func (q *BinaryMath) Accepts(answer string) bool { return ExactMatch(answer, q.CorrectAnswer()) }

type ternaryRule struct {
	format string
	points int
	eval   func(a, b, c *big.Int) *big.Int
}

var ternaryRules = map[Kind]ternaryRule{
	KindAdditionAddition: {
		format: "what is %d plus %d plus %d",
		points: 30,
		eval:   func(a, b, c *big.Int) *big.Int { return new(big.Int).Add(new(big.Int).Add(a, b), c) },
	},
	KindAdditionMultiplication: {
		format: "what is %d plus %d multiplied by %d",
		points: 60,
		eval:   func(a, b, c *big.Int) *big.Int { return new(big.Int).Add(a, new(big.Int).Mul(b, c)) },
	},
	KindMultiplicationAddition: {
		format: "what is %d multiplied by %d plus %d",
		points: 50,
		eval:   func(a, b, c *big.Int) *big.Int { return new(big.Int).Add(new(big.Int).Mul(a, b), c) },
	},
}

// TernaryMath is a three operand arithmetic question. Operator precedence
// follows ordinary arithmetic: multiplication binds tighter.
type TernaryMath struct {
	kind Kind
	N1   int
	N2   int
	N3   int
}

func NewAdditionAddition(n1, n2, n3 int) *TernaryMath {
	return &TernaryMath{kind: KindAdditionAddition, N1: n1, N2: n2, N3: n3}
}

func NewAdditionMultiplication(n1, n2, n3 int) *TernaryMath {
	return &TernaryMath{kind: KindAdditionMultiplication, N1: n1, N2: n2, N3: n3}
}

func NewMultiplicationAddition(n1, n2, n3 int) *TernaryMath {
	return &TernaryMath{kind: KindMultiplicationAddition, N1: n1, N2: n2, N3: n3}
}

func generateTernary(kind Kind) Generator {
	return func(r Rand, _ Player) Type {
		return &TernaryMath{
			kind: kind,
			N1:   r.IntN(operandLimit),
			N2:   r.IntN(operandLimit),
			N3:   r.IntN(operandLimit),
		}
	}
}

func (q *TernaryMath) Kind() Kind  { return q.kind }
func (q *TernaryMath) Points() int { return ternaryRules[q.kind].points }

func (q *TernaryMath) Text() string {
	return fmt.Sprintf(ternaryRules[q.kind].format, q.N1, q.N2, q.N3)
}

func (q *TernaryMath) CorrectAnswer() string {
	return ternaryRules[q.kind].eval(big.NewInt(int64(q.N1)), big.NewInt(int64(q.N2)), big.NewInt(int64(q.N3))).String()
}

func (q *TernaryMath) Accepts(answer string) bool { return ExactMatch(answer, q.CorrectAnswer()) }

// fibonacciOffset shifts the drawn index so the easiest question asks for Fib(4).
const fibonacciOffset = 4

// Fibonacci asks for Fib(N+4) with Fib(0)=0 and Fib(1)=1. N is never negative.
type Fibonacci struct {
	N int
}

func NewFibonacci(n int) *Fibonacci { return &Fibonacci{N: max(n, 0)} }

func generateFibonacci(r Rand, _ Player) Type {
	return &Fibonacci{N: r.IntN(operandLimit)}
}

func (q *Fibonacci) Kind() Kind  { return KindFibonacci }
func (q *Fibonacci) Points() int { return 50 }

func (q *Fibonacci) Text() string {
	return fmt.Sprintf("what is the %s number in the Fibonacci sequence", ordinal(q.N+fibonacciOffset))
}

func (q *Fibonacci) CorrectAnswer() string {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < q.N+fibonacciOffset; i++ {
		a, b = b, a.Add(a, b)
	}
	return a.String()
}

func (q *Fibonacci) Accepts(answer string) bool { return ExactMatch(answer, q.CorrectAnswer()) }

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
