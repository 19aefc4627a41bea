// Package corpus loads and holds the question/answer set the quiz runs on.
// The corpus is built once at startup and is immutable afterwards, so it is
// shared across concurrent sessions without locking.
package corpus

import "math/rand"

// Corpus is the immutable question→answer mapping.
type Corpus struct {
	pairs     map[string]string
	questions []string
}

// New builds a Corpus from an already-parsed mapping. Load is the normal
// entry point; New exists for wiring and tests.
func New(pairs map[string]string) *Corpus {
	questions := make([]string, 0, len(pairs))
	for q := range pairs {
		questions = append(questions, q)
	}
	return &Corpus{pairs: pairs, questions: questions}
}

// Answer returns the stored answer for a question.
func (c *Corpus) Answer(question string) (string, bool) {
	answer, ok := c.pairs[question]
	return answer, ok
}

// Random picks a question uniformly, with no memory of prior picks.
// Returns "" when the corpus is empty.
func (c *Corpus) Random() string {
	if len(c.questions) == 0 {
		return ""
	}
	return c.questions[rand.Intn(len(c.questions))]
}

// Len reports the number of question/answer pairs.
func (c *Corpus) Len() int {
	return len(c.questions)
}

// Questions returns a copy of all question texts.
func (c *Corpus) Questions() []string {
	out := make([]string, len(c.questions))
	copy(out, c.questions)
	return out
}
