// Package wordlist loads and normalizes the word lists fed to the
// classification pipeline.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_words.txt
var defaultWords string

// Load reads a word list from a file. Blank lines and lines starting with
// '#' are skipped; words are trimmed, lowercased, and de-duplicated
// preserving first occurrence.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer file.Close()

	words, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	return words, nil
}

// Parse normalizes a word list from a reader using the same rules as Load.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// A line may carry several whitespace-separated words.
		for _, field := range strings.Fields(line) {
			word := strings.ToLower(field)
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// Default returns the built-in word list used when no input file is given.
func Default() []string {
	words, err := Parse(strings.NewReader(defaultWords))
	if err != nil {
		// The embedded list is static; a read failure here is a bug.
		panic(fmt.Sprintf("parse embedded word list: %v", err))
	}
	return words
}
