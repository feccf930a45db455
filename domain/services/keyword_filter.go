package services

import (
	"strings"
	"unicode/utf8"
)

// MinKeywordRunes is the shortest token kept as a keyword
const MinKeywordRunes = 2

// Keyword is a kept keyword: Key is the normalized form used for deduplication,
// Label the first spelling seen.
type Keyword struct {
	Key   string
	Label string
}

// KeywordFilter applies the stop-word and length rules to keyword candidates
type KeywordFilter struct {
	stopWords map[string]bool
}

// NewKeywordFilter creates a filter with the default stop words
func NewKeywordFilter() *KeywordFilter {
	return &KeywordFilter{stopWords: defaultStopWords()}
}

// NewKeywordFilterWithStopWords creates a filter with a custom stop-word set
func NewKeywordFilterWithStopWords(words []string) *KeywordFilter {
	stop := make(map[string]bool, len(words))
	for _, w := range words {
		stop[NormalizeKeyword(w)] = true
	}
	return &KeywordFilter{stopWords: stop}
}

// NormalizeKeyword returns the comparison form of a keyword
func NormalizeKeyword(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// IsStopWord reports whether the normalized token is filtered out
func (f *KeywordFilter) IsStopWord(token string) bool {
	return f.stopWords[NormalizeKeyword(token)]
}

// Filter keeps at most limit keywords from candidates, in order. Tokens shorter than
// MinKeywordRunes, stop words and repeats of an already kept token are skipped.
// A limit <= 0 keeps everything that passes.
func (f *KeywordFilter) Filter(candidates []string, limit int) []Keyword {
	kept := make([]Keyword, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if limit > 0 && len(kept) == limit {
			break
		}
		label := strings.TrimSpace(c)
		key := NormalizeKeyword(label)
		if utf8.RuneCountInString(key) < MinKeywordRunes || f.stopWords[key] || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, Keyword{Key: key, Label: label})
	}
	return kept
}

// Labels is Filter returning only the display strings, the form stored on a book
func (f *KeywordFilter) Labels(candidates []string, limit int) []string {
	kept := f.Filter(candidates, limit)
	labels := make([]string, len(kept))
	for i, k := range kept {
		labels[i] = k.Label
	}
	return labels
}

func defaultStopWords() map[string]bool {
	words := []string{
		// English
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
		"this", "that", "these", "those", "it", "its", "as", "if", "so", "not",
		"book", "story", "review",
		// Korean filler words that say nothing about a book
		"책", "이책", "내용", "느낌", "생각", "정말", "너무", "진짜", "그리고",
		"하지만", "그래서", "그런데", "이야기", "것", "수", "등", "때", "더",
		"키워드", "없음",
	}
	stop := make(map[string]bool, len(words))
	for _, w := range words {
		stop[w] = true
	}
	return stop
}
