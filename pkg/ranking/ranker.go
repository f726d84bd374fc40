// Package ranking scores feed candidates with a configurable formula.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Candidate is the input a formula sees for one post.
type Candidate struct {
	Karma     int
	Comments  int
	CreatedAt time.Time
}

// Ranker evaluates the hot formula. It is safe for concurrent use.
type Ranker struct {
	engine  *Engine
	formula string
	now     func() time.Time
}

// NewRanker compiles formula and checks it yields a number for a sample post.
func NewRanker(formula string) (*Ranker, error) {
	r := &Ranker{engine: NewEngine(), formula: formula, now: time.Now}
	if _, err := r.Score(Candidate{Karma: 1, CreatedAt: r.now()}); err != nil {
		return nil, fmt.Errorf("invalid hot formula: %w", err)
	}
	return r, nil
}

// Formula returns the expression the ranker evaluates.
func (r *Ranker) Formula() string {
	return r.formula
}

// Score evaluates the formula for c.
func (r *Ranker) Score(c Candidate) (float64, error) {
	env := map[string]interface{}{
		"karma":        float64(c.Karma),
		"comments":     float64(c.Comments),
		"age_hours":    r.now().Sub(c.CreatedAt).Hours(),
		"created_unix": float64(c.CreatedAt.Unix()),
	}
	out, err := r.engine.Evaluate(r.formula, env)
	if err != nil {
		return 0, err
	}
	score, err := toFloat(out)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) {
		return 0, fmt.Errorf("formula produced NaN")
	}
	return score, nil
}

// Rank returns items ordered by descending score. Ties keep input order.
func Rank[T any](r *Ranker, items []T, candidate func(T) Candidate) ([]T, error) {
	type scored struct {
		item  T
		score float64
	}
	rows := make([]scored, 0, len(items))
	for _, item := range items {
		s, err := r.Score(candidate(item))
		if err != nil {
			return nil, err
		}
		rows = append(rows, scored{item: item, score: s})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
	return lo.Map(rows, func(s scored, _ int) T { return s.item }), nil
}
