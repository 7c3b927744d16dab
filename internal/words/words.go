// internal/words/words.go
//
// Dictionary collaborator for the word battle.
//
// Responsibilities:
//   - Load the dictionary from a file or fall back to the embedded default list.
//   - Answer "is this a real word" for the engine's word-guess validator.
//   - Pick distinct random words for board setup.
//
// Initialization behavior (Init):
//   1. If WORDS_FILE is set, load words from that file.
//   2. Otherwise use the embedded default_words.txt.
//
// Constraints:
//   • Words are alphabetic A–Z, at least MinLen letters.
//   • Lists are normalized to uppercase.
//   • Init runs once (sync.Once); Load builds independent dictionaries.

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/rand"
)

// MinLen is the shortest word the dictionary keeps.
const MinLen = 3

//go:embed default_words.txt
var embeddedWords string

// ErrEmpty is returned when a dictionary ends up with no words.
var ErrEmpty = errors.New("words: dictionary is empty")

// Dictionary is an immutable word set.
type Dictionary struct {
	list []string            // sorted
	set  map[string]struct{} // same words, for lookups
}

// Load reads one word per line from r. Blank lines, '#' comments and words
// that are too short or non-alphabetic are skipped.
func Load(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{set: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := strings.ToUpper(line)
		if len(w) < MinLen || !isAlpha(w) {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.list = append(d.list, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(d.list) == 0 {
		return nil, ErrEmpty
	}
	sort.Strings(d.list)
	return d, nil
}

// FromList builds a dictionary from an in-memory list.
func FromList(list []string) (*Dictionary, error) {
	return Load(strings.NewReader(strings.Join(list, "\n")))
}

// IsValid reports whether text (any case, surrounding space ignored) is a
// dictionary word. Its method value satisfies engine.WordValidator.
func (d *Dictionary) IsValid(text string) bool {
	_, ok := d.set[strings.ToUpper(strings.TrimSpace(text))]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.list) }

// Pick returns n distinct words whose length is within [minLen, maxLen].
// It returns fewer when the dictionary cannot supply n.
func (d *Dictionary) Pick(rng *rand.Rand, n, minLen, maxLen int) []string {
	var pool []string
	for _, w := range d.list {
		if len(w) >= minLen && len(w) <= maxLen {
			pool = append(pool, w)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

var (
	initOnce   sync.Once
	defaultDic *Dictionary
	initialErr error
)

// Init loads the process-wide dictionary exactly once.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				initialErr = err
				return
			}
			defer f.Close()
			defaultDic, initialErr = Load(f)
			return
		}
		defaultDic, initialErr = Load(strings.NewReader(embeddedWords))
	})
	return initialErr
}

// Default returns the process-wide dictionary, loading it if needed.
// It returns nil when loading failed.
func Default() *Dictionary {
	_ = Init()
	return defaultDic
}
