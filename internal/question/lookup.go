package question

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// GeneralKnowledge asks a fixed trivia question from the bank.
type GeneralKnowledge struct {
	Question string
	Answer   string
}

func NewGeneralKnowledge(question, answer string) *GeneralKnowledge {
	return &GeneralKnowledge{Question: question, Answer: answer}
}

func generateGeneralKnowledge(bank []TriviaItem) Generator {
	return func(r Rand, _ Player) Type {
		item := sample(r, bank)
		return &GeneralKnowledge{Question: item.Question, Answer: item.Answer}
	}
}

func (q *GeneralKnowledge) Kind() Kind            { return KindGeneralKnowledge }
func (q *GeneralKnowledge) Points() int           { return 10 }
func (q *GeneralKnowledge) Text() string          { return q.Question }
func (q *GeneralKnowledge) CorrectAnswer() string { return q.Answer }
func (q *GeneralKnowledge) Accepts(a string) bool { return ExactMatch(a, q.Answer) }

// Anagram asks which of several words is an anagram of Word. Options holds
// the display order and always contains Correct.
type Anagram struct {
	Word    string
	Correct string
	Options []string
}

// NewAnagram lists the correct word first followed by the incorrect ones.
func NewAnagram(word, correct string, incorrect ...string) *Anagram {
	return &Anagram{Word: word, Correct: correct, Options: append([]string{correct}, incorrect...)}
}

func generateAnagram(bank []AnagramItem) Generator {
	return func(r Rand, _ Player) Type {
		item := sample(r, bank)
		q := NewAnagram(item.Anagram, item.Correct, item.Incorrect...)
		r.Shuffle(len(q.Options), func(i, j int) { q.Options[i], q.Options[j] = q.Options[j], q.Options[i] })
		return q
	}
}

func (q *Anagram) Kind() Kind  { return KindAnagram }
func (q *Anagram) Points() int { return 10 }

func (q *Anagram) Text() string {
	return fmt.Sprintf("which of the following is an anagram of %q: %s", q.Word, strings.Join(q.Options, ", "))
}

func (q *Anagram) CorrectAnswer() string      { return q.Correct }
func (q *Anagram) Accepts(answer string) bool { return ExactMatch(answer, q.Correct) }

var scrabbleScores = func() map[rune]int {
	scores := make(map[rune]int, 26)
	for letters, score := range map[string]int{
		"aeionrtlsu": 1,
		"dg":         2,
		"bcmp":       3,
		"fhvwy":      4,
		"k":          5,
		"jx":         8,
		"qz":         10,
	} {
		for _, l := range letters {
			scores[l] = score
		}
	}
	return scores
}()

// ScrabbleScore sums English Scrabble letter values. Non-letters score zero.
func ScrabbleScore(word string) int {
	total := 0
	for _, l := range strings.ToLower(word) {
		total += scrabbleScores[l]
	}
	return total
}

// Scrabble asks for the English Scrabble score of Word.
type Scrabble struct {
	Word string
}

func NewScrabble(word string) *Scrabble { return &Scrabble{Word: word} }

func generateScrabble(words []string) Generator {
	return func(r Rand, _ Player) Type {
		return &Scrabble{Word: sample(r, words)}
	}
}

func (q *Scrabble) Kind() Kind  { return KindScrabble }
func (q *Scrabble) Points() int { return 10 }

func (q *Scrabble) Text() string {
	return fmt.Sprintf("what is the english scrabble score of %s", q.Word)
}

func (q *Scrabble) CorrectAnswer() string      { return strconv.Itoa(ScrabbleScore(q.Word)) }
func (q *Scrabble) Accepts(answer string) bool { return ExactMatch(answer, q.CorrectAnswer()) }

// Listing fields a Finnkode question can ask about.
const (
	FieldPrice = "price"
	FieldTitle = "title"
)

var listingFields = []string{FieldPrice, FieldTitle}

// Finnkode asks for a stored field of a classified listing. Graded by
// containment since players tend to answer with the surrounding text.
type Finnkode struct {
	Code  string
	Field string
	Value string
}

// NewFinnkode picks the requested field from listing.
func NewFinnkode(listing Listing, field string) *Finnkode {
	value := listing.Title
	if field == FieldPrice {
		value = listing.Price
	}
	return &Finnkode{Code: listing.Code, Field: field, Value: value}
}

func generateFinnkode(bank []Listing) Generator {
	return func(r Rand, _ Player) Type {
		field := sample(r, listingFields)
		return NewFinnkode(sample(r, bank), field)
	}
}

func (q *Finnkode) Kind() Kind  { return KindFinnkode }
func (q *Finnkode) Points() int { return 10 }

func (q *Finnkode) Text() string {
	return fmt.Sprintf("what is the %s of finnkode %s", q.Field, q.Code)
}

func (q *Finnkode) CorrectAnswer() string      { return q.Value }
func (q *Finnkode) Accepts(answer string) bool { return ContainsMatch(answer, q.Value) }

// Warmup asks the player for its own registered name.
type Warmup struct {
	TeamName string
}

func NewWarmup(p Player) *Warmup { return &Warmup{TeamName: p.Name} }

func (q *Warmup) Kind() Kind                 { return KindWarmup }
func (q *Warmup) Points() int                { return 10 }
func (q *Warmup) Text() string               { return "what is your team name" }
func (q *Warmup) CorrectAnswer() string      { return q.TeamName }
func (q *Warmup) Accepts(answer string) bool { return ExactMatch(answer, q.TeamName) }

func validWord(w string) bool {
	return w != "" && !slices.ContainsFunc([]rune(w), unicode.IsSpace)
}
