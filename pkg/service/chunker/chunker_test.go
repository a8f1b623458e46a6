package chunker_test

import (
	"strings"
	"testing"

	"github.com/claims-lab/themis/pkg/service/chunker"
	"github.com/m-mizutani/gt"
)

func TestSplit(t *testing.T) {
	t.Run("empty input yields no chunks", func(t *testing.T) {
		gt.Array(t, chunker.Split("", 100)).Length(0)
		gt.Array(t, chunker.Split("   \n\t  ", 100)).Length(0)
	})

	t.Run("short text stays in one chunk", func(t *testing.T) {
		chunks := chunker.Split("Surgery is covered.", 100)
		gt.Array(t, chunks).Length(1)
		gt.Value(t, chunks[0]).Equal("Surgery is covered.")
	})

	t.Run("sentences pack greedily until the limit", func(t *testing.T) {
		text := "One fact. Two fact. Three fact. Four fact."
		chunks := chunker.Split(text, 25)
		gt.Array(t, chunks).Length(2)
		gt.Value(t, chunks[0]).Equal("One fact. Two fact.")
		gt.Value(t, chunks[1]).Equal("Three fact. Four fact.")
	})

	t.Run("oversized sentence splits on word boundaries", func(t *testing.T) {
		text := "The waiting period for knee surgery is thirty six months from inception."
		chunks := chunker.Split(text, 30)
		gt.Number(t, len(chunks)).Greater(1)
		for _, c := range chunks {
			gt.Number(t, len(c)).LessOrEqual(30)
		}
	})

	t.Run("single over-limit word overflows as its own chunk", func(t *testing.T) {
		long := strings.Repeat("x", 50)
		chunks := chunker.Split("tiny "+long+" word.", 10)
		found := false
		for _, c := range chunks {
			if c == long {
				found = true
			}
		}
		gt.Bool(t, found).True()
	})

	t.Run("joining chunks reproduces the word sequence", func(t *testing.T) {
		text := "Hospitalization expenses are covered.   The waiting\nperiod for surgery is one month! Claims need pre-approval?"
		for _, size := range []int{10, 25, 40, 200} {
			chunks := chunker.Split(text, size)
			joined := strings.Join(chunks, " ")
			want := strings.Join(strings.Fields(text), " ")
			gt.Value(t, joined).Equal(want)
		}
	})

	t.Run("deterministic for repeated calls", func(t *testing.T) {
		text := "A policy clause. Another policy clause. A third one."
		first := chunker.Split(text, 25)
		second := chunker.Split(text, 25)
		gt.Array(t, first).Equal(second)
	})

	t.Run("non-positive limit returns whole text", func(t *testing.T) {
		chunks := chunker.Split("Everything in one. Piece here.", 0)
		gt.Array(t, chunks).Length(1)
	})
}
