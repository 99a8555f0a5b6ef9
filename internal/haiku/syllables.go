// Package haiku counts syllables and checks text against the 5-7-5 haiku form.
//
// Counting is a heuristic: a small table of irregular words is exact, everything
// else is estimated from vowel runs. It is meant for live feedback while typing,
// not for enforcement.
package haiku

import (
	"strings"
	"unicode"
)

// exceptions holds words the vowel-run heuristic gets wrong. Keys are lowercase letters only.
var exceptions = map[string]int{
	"creating":      3,
	"forehand":      2,
	"lovely":        2,
	"whole":         1,
	"single":        2,
	"communication": 5,
	"calculation":   4,
	"foundation":    5,
	"generation":    5,
}

// CountSyllables returns the estimated number of syllables in text.
// Every word that contains at least one letter counts as one syllable or more;
// tokens without letters count as zero.
func CountSyllables(text string) int {
	total := 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		word := lettersOnly(strings.TrimFunc(token, unicode.IsPunct))
		if word == "" {
			continue
		}
		total += countWord(word)
	}
	return total
}

func countWord(word string) int {
	if n, ok := lookupException(word); ok {
		return n
	}

	runes := []rune(word)
	count := 0
	prevVowel := false
	for _, r := range runes {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if strings.HasSuffix(word, "le") && len(runes) > 2 && !isVowel(runes[len(runes)-3]) {
		count++
	}
	if strings.HasSuffix(word, "ion") {
		count++
	}

	return max(count, 1)
}

// lookupException matches the word itself, then its stem without a plural suffix.
// A word ending in "es" only retries without "es"; "s" is stripped otherwise.
func lookupException(word string) (int, bool) {
	if n, ok := exceptions[word]; ok {
		return n, true
	}
	var stem string
	if strings.HasSuffix(word, "es") {
		stem = strings.TrimSuffix(word, "es")
	} else if strings.HasSuffix(word, "s") {
		stem = strings.TrimSuffix(word, "s")
	} else {
		return 0, false
	}
	n, ok := exceptions[stem]
	return n, ok
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
