package question

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyBank reports a static data bank with no usable entries.
var ErrEmptyBank = errors.New("empty question bank")

//go:embed banks.yaml
var defaultBanks []byte

// TriviaItem is one general knowledge question and its answer.
type TriviaItem struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// AnagramItem is a word with one correct anagram and several distractors.
type AnagramItem struct {
	Anagram   string   `yaml:"anagram"`
	Correct   string   `yaml:"correct"`
	Incorrect []string `yaml:"incorrect"`
}

// Listing is a classified ad addressed by its finnkode.
type Listing struct {
	Code  string `yaml:"code"`
	Price string `yaml:"price"`
	Title string `yaml:"title"`
}

// Banks holds the read-only data the lookup questions sample from. It is
// loaded once at startup and never mutated afterwards.
type Banks struct {
	Trivia        []TriviaItem  `yaml:"trivia"`
	Anagrams      []AnagramItem `yaml:"anagrams"`
	ScrabbleWords []string      `yaml:"scrabble_words"`
	Listings      []Listing     `yaml:"listings"`
}

// DefaultBanks returns the banks compiled into the binary.
func DefaultBanks() (*Banks, error) {
	return ParseBanks(defaultBanks)
}

// LoadBanks reads banks from path, or the compiled-in defaults when path is empty.
func LoadBanks(path string) (*Banks, error) {
	if path == "" {
		return DefaultBanks()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read banks: %w", err)
	}
	return ParseBanks(data)
}

// ParseBanks decodes YAML banks and validates them.
func ParseBanks(data []byte) (*Banks, error) {
	var b Banks
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode banks: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate fails when any bank is empty or holds an unusable entry.
func (b *Banks) Validate() error {
	if len(b.Trivia) == 0 {
		return fmt.Errorf("trivia: %w", ErrEmptyBank)
	}
	for i, item := range b.Trivia {
		if item.Question == "" || item.Answer == "" {
			return fmt.Errorf("trivia[%d]: question and answer are required", i)
		}
	}
	if len(b.Anagrams) == 0 {
		return fmt.Errorf("anagrams: %w", ErrEmptyBank)
	}
	for i, item := range b.Anagrams {
		if item.Anagram == "" || item.Correct == "" || len(item.Incorrect) == 0 {
			return fmt.Errorf("anagrams[%d]: anagram, correct and incorrect are required", i)
		}
	}
	if len(b.ScrabbleWords) == 0 {
		return fmt.Errorf("scrabble_words: %w", ErrEmptyBank)
	}
	for i, w := range b.ScrabbleWords {
		if !validWord(w) {
			return fmt.Errorf("scrabble_words[%d]: %q is not a single word", i, w)
		}
	}
	if len(b.Listings) == 0 {
		return fmt.Errorf("listings: %w", ErrEmptyBank)
	}
	for i, l := range b.Listings {
		if l.Code == "" || l.Price == "" || l.Title == "" {
			return fmt.Errorf("listings[%d]: code, price and title are required", i)
		}
	}
	return nil
}

// WithTrivia returns a copy of b with extra trivia appended.
func (b *Banks) WithTrivia(extra []TriviaItem) *Banks {
	out := *b
	out.Trivia = append(append([]TriviaItem(nil), b.Trivia...), extra...)
	return &out
}
