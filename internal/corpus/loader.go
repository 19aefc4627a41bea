package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Question files are plain text in KOI8-R: paragraphs separated by a blank
// line, question paragraphs start with "Вопрос ...:", answer paragraphs with
// "Ответ ...:". Each answer closes the most recent open question.
const (
	questionLabel = "Вопрос"
	answerLabel   = "Ответ"
)

// LoadError reports a corpus directory or file that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("corpus: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads every *.txt file under dir and builds the Corpus. Duplicate
// question text across files is resolved last-loaded-wins. Malformed blocks
// are skipped silently; an unreadable or undecodable file fails the whole
// load. An empty result is not an error here — the caller decides whether an
// empty corpus is fatal.
func Load(dir string) (*Corpus, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}

	pairs := make(map[string]string)
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		decoded, err := charmap.KOI8R.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		parseBlocks(string(decoded), pairs)
	}

	return New(pairs), nil
}

// parseBlocks pairs question and answer paragraphs sequentially. A question
// opens a pending entry, the next answer closes it. Blocks with no recognized
// label, and answers with no pending question, are dropped.
func parseBlocks(text string, pairs map[string]string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var pending string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		switch {
		case strings.HasPrefix(block, questionLabel):
			pending = labelBody(block)
		case strings.HasPrefix(block, answerLabel):
			if pending == "" {
				continue
			}
			if answer := labelBody(block); answer != "" {
				pairs[pending] = answer
			}
			pending = ""
		}
	}
}

// labelBody strips the "Вопрос N:" / "Ответ N:" label and returns the text
// after the first colon. The label never contains a colon itself, so the
// body keeps any colons of its own.
func labelBody(block string) string {
	_, body, ok := strings.Cut(block, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(body)
}
