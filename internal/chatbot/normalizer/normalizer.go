// Package normalizer turns raw utterances into the token string the
// classifier was trained on.
package normalizer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "banking-chatbot/internal/common/errors"
)

// Sentinels returned instead of errors. Callers treat normalization as total.
const (
	EmptyText = "empty_text"
	ErrorText = "error_text"
)

// importantWords survive stop-word removal because they carry intent.
var importantWords = map[string]struct{}{
	"how": {}, "what": {}, "why": {}, "where": {}, "when": {}, "who": {},
	"card": {}, "money": {}, "transfer": {}, "receive": {}, "exchange": {}, "rate": {},
}

// Result is the outcome of one normalization. Text is always usable.
type Result struct {
	// Text is the normalized token string or a sentinel.
	Text string
	// Cleaned is the lower-cased input with disallowed characters removed,
	// before tokenization and stop-word filtering.
	Cleaned string
	// Sentinel is true when Text is EmptyText or ErrorText.
	Sentinel bool
	// Err records why ErrorText was produced.
	Err error
}

// Contains reports whether phrase occurs in the cleaned input or in the
// normalized text. Stop-word removal can break phrases such as
// "report a problem", so both forms are checked.
func (r Result) Contains(phrase string) bool {
	return strings.Contains(r.Cleaned, phrase) || strings.Contains(r.Text, phrase)
}

// Tokenizer splits cleaned text into word and punctuation tokens.
type Tokenizer func(text string) []string

type Normalizer struct {
	stopWords map[string]struct{}
	tokenize  Tokenizer
}

type Option func(*Normalizer)

// WithTokenizer replaces the default UAX #29 word segmenter.
func WithTokenizer(t Tokenizer) Option {
	return func(n *Normalizer) { n.tokenize = t }
}

// WithStopWords replaces the default English stop-word list.
func WithStopWords(words []string) Option {
	return func(n *Normalizer) { n.stopWords = toSet(words) }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopWords: toSet(englishStopWords),
		tokenize:  SegmentWords,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize runs the default pipeline and returns only the text.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text).Text
}

// NormalizeOptional maps a missing value to the empty string.
func NormalizeOptional(text *string) string {
	if text == nil {
		return ""
	}
	return Normalize(*text)
}

// Normalize lower-cases, strips, tokenizes and filters text. It never panics.
func (n *Normalizer) Normalize(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Text:     ErrorText,
				Sentinel: true,
				Err:      apperrors.NewNormalizationFailedError(fmt.Errorf("normalize: %v", r)),
			}
		}
	}()

	cleaned := Clean(text)
	tokens := n.tokenize(cleaned)

	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.keep(tok) {
			kept = append(kept, tok)
		}
	}

	joined := strings.Join(kept, " ")
	if strings.TrimSpace(joined) == "" {
		return Result{Text: EmptyText, Cleaned: cleaned, Sentinel: true}
	}
	return Result{Text: joined, Cleaned: cleaned}
}

func (n *Normalizer) keep(token string) bool {
	if _, stop := n.stopWords[token]; !stop {
		return true
	}
	_, important := importantWords[token]
	return important
}

// Clean lower-cases text and drops every rune outside [a-z0-9], whitespace
// and the punctuation set ?.!,
func Clean(text string) string {
	lowered := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '?', r == '.', r == '!', r == ',':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return false
}

// SegmentWords splits text on Unicode word boundaries, dropping whitespace
// segments. Punctuation marks come back as their own tokens.
//
// UAX #29 keeps fused forms such as "cannot" and "gonna" whole, while the
// Treebank tokenizer the model was trained with splits them, so those words
// are split again here.
func SegmentWords(text string) []string {
	var tokens []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if strings.TrimSpace(word) == "" {
			continue
		}
		if parts, ok := contractions[word]; ok {
			tokens = append(tokens, parts[0], parts[1])
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Treebank contractions that survive apostrophe stripping.
var contractions = map[string][2]string{
	"cannot": {"can", "not"},
	"gimme":  {"gim", "me"},
	"gonna":  {"gon", "na"},
	"gotta":  {"got", "ta"},
	"lemme":  {"lem", "me"},
	"wanna":  {"wan", "na"},
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
