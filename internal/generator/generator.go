// Package generator builds practice sentences for drill mode.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/baldojulio/speech-pronunciation/internal/token"
)

// Generator produces randomized practice sentences from a word list.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Sentence selects count words uniformly and joins their display forms with
// spaces.
func (g *Generator) Sentence(words []token.Word, count int) string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, words[g.rnd.Intn(len(words))].Original)
	}
	return strings.Join(result, " ")
}

// SentenceWeighted selects words with a bias toward the weak set. weakSet
// holds normalized forms, so membership is tested against each word's
// normalized form; a word in weakSet carries weight 1+factor, all others
// weight 1.
func (g *Generator) SentenceWeighted(words []token.Word, count int, weakSet map[string]struct{}, factor float64) string {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := 1.0
		if _, ok := weakSet[word.Normalized]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, words[idx].Original)
	}
	return strings.Join(result, " ")
}
