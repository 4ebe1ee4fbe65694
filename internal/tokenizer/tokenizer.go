// Package tokenizer normalizes query text the same way the corpus was
// tokenized at indexing time: lower-casing, splitting on non-alphanumeric
// boundaries (word-internal apostrophes and hyphens survive), and removing
// English plus corpus-specific stopwords.
package tokenizer

import (
	"strings"
	"unicode"
)

var englishStopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {},
	"can": {}, "did": {}, "do": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {},
	"further": {}, "had": {}, "has": {}, "have": {}, "having": {},
	"he": {}, "her": {}, "here": {}, "hers": {}, "him": {}, "his": {},
	"how": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "just": {}, "more": {}, "most": {}, "my": {}, "no": {},
	"nor": {}, "not": {}, "now": {}, "of": {}, "off": {}, "on": {},
	"once": {}, "only": {}, "or": {}, "other": {}, "our": {}, "out": {},
	"over": {}, "own": {}, "same": {}, "she": {}, "should": {}, "so": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "to": {},
	"too": {}, "under": {}, "until": {}, "up": {}, "very": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {},
	"will": {}, "with": {}, "you": {}, "your": {}, "yours": {},
}

// corpusStopWords are terms that behave like stopwords in this corpus's
// article boilerplate (section headings, link scaffolding) and were removed
// during index construction.
var corpusStopWords = map[string]struct{}{
	"category": {}, "references": {}, "also": {}, "external": {},
	"links": {}, "may": {}, "first": {}, "see": {}, "history": {},
	"people": {}, "one": {}, "two": {}, "part": {}, "thumb": {},
	"including": {}, "second": {}, "following": {}, "many": {},
	"however": {}, "would": {}, "became": {},
}

// minTokenLen mirrors the indexing-time token pattern, which required at
// least three word characters.
const minTokenLen = 3

// Tokenizer implements the ranking pipeline's Tokenizer contract.
type Tokenizer struct{}

// New returns a Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize breaks text into lowercased terms with stopwords removed.
// Deterministic; empty input yields an empty slice.
func (t *Tokenizer) Tokenize(text string) []string {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-' && r != '#' && r != '@'
	})
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.Trim(word, "'-")
		if len([]rune(word)) < minTokenLen {
			continue
		}
		if _, stop := englishStopWords[word]; stop {
			continue
		}
		if _, stop := corpusStopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
