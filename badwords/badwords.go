package badwords

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/joy095/bayelite/logger"
)

//go:embed en.txt
var defaultList string

// badWordsMap is the lowercase set of screened words.
var badWordsMap map[string]struct{}

var mu sync.RWMutex

// LoadBadWords replaces the screened words with the lines of filename.
func LoadBadWords(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read bad words file: %w", err)
	}
	n := load(string(data))
	logger.InfoLogger.Infof("Loaded %d bad words from %s", n, filename)
	return nil
}

// LoadDefaultBadWords installs the built-in English list.
func LoadDefaultBadWords() {
	n := load(defaultList)
	logger.InfoLogger.Infof("Loaded %d built-in bad words", n)
}

func load(data string) int {
	words := make(map[string]struct{})
	for _, line := range strings.Split(data, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			words[strings.ToLower(w)] = struct{}{}
		}
	}

	mu.Lock()
	badWordsMap = words
	mu.Unlock()
	return len(words)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ContainsBadWords reports whether any word of text is on the list.
func ContainsBadWords(text string) bool {
	mu.RLock()
	defer mu.RUnlock()

	if len(badWordsMap) == 0 {
		return false
	}
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !isWordRune(r) }) {
		if _, found := badWordsMap[word]; found {
			return true
		}
	}
	return false
}

// Mask replaces every listed word in text with asterisks of the same length. Spacing
// and punctuation are kept.
func Mask(text string) string {
	mu.RLock()
	defer mu.RUnlock()

	if len(badWordsMap) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			out.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		word := string(runes[i:j])
		if _, found := badWordsMap[strings.ToLower(word)]; found {
			out.WriteString(strings.Repeat("*", j-i))
		} else {
			out.WriteString(word)
		}
		i = j
	}
	return out.String()
}
