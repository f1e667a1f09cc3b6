package domain

import (
	"math/rand/v2"
	"strings"
)

// Markov generation limits.
const (
	MaxMarkovCount = 100
	maxMarkovWords = 60
)

// endOfText marks the transition out of the last word of a training text.
const endOfText = ""

// Chain is a first-order word chain trained on quote texts.
// A Chain is not safe for concurrent use; build one per request.
type Chain struct {
	rnd    *rand.Rand
	starts []string
	next   map[string][]string
}

// NewChain creates an empty chain drawing from rnd.
// A nil rnd uses a randomly seeded source.
func NewChain(rnd *rand.Rand) *Chain {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Chain{
		rnd:  rnd,
		next: make(map[string][]string),
	}
}

// Train adds the word transitions of each text.
func (c *Chain) Train(texts ...string) {
	for _, text := range texts {
		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}

		c.starts = append(c.starts, words[0])

		for i, w := range words {
			follower := endOfText
			if i+1 < len(words) {
				follower = words[i+1]
			}

			c.next[w] = append(c.next[w], follower)
		}
	}
}

// Empty reports whether the chain has seen no words.
func (c *Chain) Empty() bool {
	return len(c.starts) == 0
}

// Generate walks the chain from a random starting word.
// It returns an empty string for an untrained chain.
func (c *Chain) Generate() string {
	if c.Empty() {
		return ""
	}

	word := c.starts[c.rnd.IntN(len(c.starts))]
	out := []string{word}

	for len(out) < maxMarkovWords {
		followers := c.next[word]
		if len(followers) == 0 {
			break
		}

		word = followers[c.rnd.IntN(len(followers))]
		if word == endOfText {
			break
		}

		out = append(out, word)
	}

	return strings.Join(out, " ")
}

// GenerateN returns n generated sentences.
func (c *Chain) GenerateN(n int) []string {
	out := make([]string, 0, n)
	for range n {
		out = append(out, c.Generate())
	}

	return out
}
