// Package textpipes holds the word-frequency pipes registered by the
// pipekit CLI.
package textpipes

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/kbukum/pipekit/pipes"
)

// Context keys, in the order the pipes produce them.
var (
	Input      = pipes.Key[string]{Name: "input"}
	Normalized = pipes.Key[string]{Name: "normalized"}
	Tokens     = pipes.Key[[]string]{Name: "tokens"}
	Counts     = pipes.Key[map[string]int]{Name: "counts"}
	Top        = pipes.Key[[]WordCount]{Name: "top"}
)

// DefaultTopN is how many words Top keeps when built with n <= 0.
const DefaultTopN = 10

// WordCount is one entry of the top list.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Normalize lower-cases the input and collapses whitespace.
func Normalize() pipes.Pipe {
	return pipes.New("normalize", func(_ context.Context, c *pipes.Context) error {
		in, err := pipes.Read(c, Input)
		if err != nil {
			return err
		}
		return pipes.Write(c, Normalized, strings.Join(strings.Fields(strings.ToLower(in)), " "))
	}, pipes.Require(Input.Name), pipes.Provide(Normalized.Name))
}

// Tokenize splits normalized text into words. Punctuation separates words
// and is dropped.
func Tokenize() pipes.Pipe {
	return pipes.New("tokenize", func(_ context.Context, c *pipes.Context) error {
		text := pipes.MustRead(c, Normalized)
		tokens := strings.FieldsFunc(text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		for i, tok := range tokens {
			tokens[i] = strings.Trim(tok, "'")
		}
		tokens = slices.DeleteFunc(tokens, func(s string) bool { return s == "" })
		return pipes.Write(c, Tokens, tokens)
	}, pipes.Require(Normalized.Name), pipes.Provide(Tokens.Name))
}

// Count tallies tokens.
func Count() pipes.Pipe {
	return pipes.New("count", func(_ context.Context, c *pipes.Context) error {
		counts := make(map[string]int)
		for _, tok := range pipes.MustRead(c, Tokens) {
			counts[tok]++
		}
		return pipes.Write(c, Counts, counts)
	}, pipes.Require(Tokens.Name), pipes.Provide(Counts.Name))
}

// TopN keeps the n most frequent words, ties broken alphabetically.
func TopN(n int) pipes.Pipe {
	if n <= 0 {
		n = DefaultTopN
	}
	return pipes.New("top", func(_ context.Context, c *pipes.Context) error {
		counts := pipes.MustRead(c, Counts)
		top := make([]WordCount, 0, len(counts))
		for w, count := range counts {
			top = append(top, WordCount{Word: w, Count: count})
		}
		slices.SortFunc(top, func(a, b WordCount) int {
			if d := cmp.Compare(b.Count, a.Count); d != 0 {
				return d
			}
			return cmp.Compare(a.Word, b.Word)
		})
		if len(top) > n {
			top = top[:n]
		}
		return pipes.Write(c, Top, top)
	}, pipes.Require(Counts.Name), pipes.Provide(Top.Name))
}

// Register adds every text pipe to r under its own name.
func Register(r *pipes.Registry, topN int) error {
	for _, p := range []pipes.Pipe{Normalize(), Tokenize(), Count(), TopN(topN)} {
		if err := r.Register(p.Name(), p); err != nil {
			return err
		}
	}
	return nil
}
