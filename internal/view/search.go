package view

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier label words are better)
	ScorePositionBonus = 10.0

	// Whole label equals the query
	ScoreExactLabelBonus = 200.0

	// Recency bonus, halved every RecencyHalfLife
	ScoreRecencyBonus = 30.0
	RecencyHalfLife   = 24 * time.Hour

	DefaultSearchLimit = 20
)

// Candidate is a launchable entry with its match score.
type Candidate struct {
	Entry        domain.Entry `json:"entry"`
	LexicalScore float64      `json:"lexicalScore"`
	RecencyScore float64      `json:"recencyScore"`
	TotalScore   float64      `json:"score"`
}

// Search ranks the launchable entries whose label matches every word of
// query. Ties keep collection order. A blank query yields nothing.
func Search(entries []domain.Entry, query string, now time.Time, limit int) []Candidate {
	words := fragments(query)
	if len(words) == 0 {
		return []Candidate{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	out := make([]Candidate, 0)
	for _, e := range entries {
		if !e.Launchable() {
			continue
		}
		lexical := scoreLabel(words, e.Label)
		if lexical == 0 {
			continue
		}
		recency := recencyScore(e.LastUsedAt(), now)
		out = append(out, Candidate{
			Entry:        e.Clone(),
			LexicalScore: lexical,
			RecencyScore: recency,
			TotalScore:   lexical + recency,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// scoreLabel sums the best score of each query word over the label
// words. A query word matching nothing rejects the label.
func scoreLabel(words []string, label string) float64 {
	labelWords := fragments(label)
	if len(labelWords) == 0 {
		return 0
	}
	if strings.Join(words, " ") == strings.Join(labelWords, " ") {
		return ScoreExactMatch + ScoreExactLabelBonus
	}

	var total float64
	for _, q := range words {
		best := 0.0
		for i, w := range labelWords {
			if s := scoreFragment(q, w, i); s > best {
				best = s
			}
		}
		if best == 0 {
			return 0
		}
		total += best
	}
	return total
}

func scoreFragment(q, w string, position int) float64 {
	if q == "" || w == "" {
		return 0
	}
	if q == w {
		return ScoreExactMatch + positionBonus(position)
	}
	if strings.HasPrefix(w, q) {
		return ScorePrefixMatch + positionBonus(position)
	}
	if i := strings.Index(w, q); i >= 0 {
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(i)/float64(len(w)))
	}
	if sim := similarity(q, w); sim > 0.5 {
		return ScoreFuzzyMatch * sim
	}
	return 0
}

func positionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// similarity is the share of runes of q that occur in w.
func similarity(q, w string) float64 {
	runes := []rune(q)
	if len(runes) == 0 {
		return 0
	}
	matches := 0
	for _, c := range runes {
		if strings.ContainsRune(w, c) {
			matches++
		}
	}
	return float64(matches) / float64(len(runes))
}

func recencyScore(lastUsed, now time.Time) float64 {
	if lastUsed.IsZero() {
		return 0
	}
	age := now.Sub(lastUsed)
	if age < 0 {
		age = 0
	}
	return ScoreRecencyBonus * math.Pow(0.5, float64(age)/float64(RecencyHalfLife))
}

// fragments lowercases s and splits it into words on anything that is
// not a letter or digit.
func fragments(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
