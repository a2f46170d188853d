package question

// Kind names a question variant.
type Kind string

// Question kinds served by the factories.
const (
	KindAddition               Kind = "addition"
	KindSubtraction            Kind = "subtraction"
	KindMultiplication         Kind = "multiplication"
	KindPower                  Kind = "power"
	KindAdditionAddition       Kind = "addition_addition"
	KindAdditionMultiplication Kind = "addition_multiplication"
	KindMultiplicationAddition Kind = "multiplication_addition"
	KindFibonacci              Kind = "fibonacci"
	KindMaximum                Kind = "maximum"
	KindSquareCube             Kind = "square_cube"
	KindPrimes                 Kind = "primes"
	KindGeneralKnowledge       Kind = "general_knowledge"
	KindAnagram                Kind = "anagram"
	KindScrabble               Kind = "scrabble"
	KindFinnkode               Kind = "finnkode"
	KindWarmup                 Kind = "warmup"
)

// Type is one instantiated question variant with its params fixed.
// Text and CorrectAnswer are deterministic for a given value.
type Type interface {
	Kind() Kind
	Text() string
	CorrectAnswer() string
	Points() int
	// Accepts grades a raw answer. Most variants delegate to ExactMatch.
	Accepts(answer string) bool
}

// Player is the part of a registered player a question needs.
type Player struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Result is the graded state of a Question.
type Result string

const (
	ResultPending       Result = "pending"
	ResultCorrect       Result = "correct"
	ResultWrong         Result = "wrong"
	ResultNoResponse    Result = "no_response"
	ResultErrorResponse Result = "error_response"
)

// Problem records why a question never got a gradable answer.
type Problem string

const (
	ProblemNoResponse    Problem = "no_response"
	ProblemErrorResponse Problem = "error_response"
)

// Delay-before-next values in scheduler time units.
const (
	DelayCorrect = 5
	DelayWrong   = 10
	DelayProblem = 20
)
