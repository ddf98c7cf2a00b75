// Package wordlist loads practice word lists.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/baldojulio/speech-pronunciation/internal/token"
)

// Load reads one word per line from the provided file path. Blank lines and
// "#" comments are skipped. Entries are normalized with tok, so callers can
// compare list words against recognizer tokens and stored word stats; entries
// that normalize to nothing are dropped.
func Load(path string, tok *token.Tokenizer) ([]token.Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []token.Word
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, tok.Words(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
