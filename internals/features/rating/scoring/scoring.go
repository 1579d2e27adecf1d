// file: internals/features/rating/scoring/scoring.go
//
// Package scoring holds the weighted scoring model used by rating templates
// and customer assessments. Everything here is pure: no I/O, no clock.
package scoring

import (
	"strings"
)

/* =======================
   Customer type
======================= */

type CustomerType string

const (
	CustomerNew      CustomerType = "new"
	CustomerExisting CustomerType = "existing"
)

func (t CustomerType) IsValid() bool {
	return t == CustomerNew || t == CustomerExisting
}

var separatorStripper = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "", "/", "", "\t", "")

// NormalizeCustomerType lower-cases raw, strips separator characters and
// matches it against new/existing. ok is false when neither matches.
func NormalizeCustomerType(raw string) (CustomerType, bool) {
	s := separatorStripper.Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch CustomerType(s) {
	case CustomerNew:
		return CustomerNew, true
	case CustomerExisting:
		return CustomerExisting, true
	}
	return "", false
}

/* =======================
   Dual values
======================= */

// Pair is a value split by customer type. Either side may be absent in
// stored documents, hence the pointers.
type Pair struct {
	New      *float64 `json:"new,omitempty"`
	Existing *float64 `json:"existing,omitempty"`
}

func NewPair(newValue, existingValue float64) Pair {
	return Pair{New: &newValue, Existing: &existingValue}
}

// For resolves the value for a raw customer type. Unrecognised types fall
// back to the new value, then the existing one, then 0.
func (p Pair) For(rawType string) float64 {
	ct, ok := NormalizeCustomerType(rawType)
	if ok {
		switch ct {
		case CustomerNew:
			return deref(p.New)
		case CustomerExisting:
			return deref(p.Existing)
		}
	}
	if p.New != nil {
		return *p.New
	}
	return deref(p.Existing)
}

func (p Pair) Clone() Pair {
	out := Pair{}
	if p.New != nil {
		v := *p.New
		out.New = &v
	}
	if p.Existing != nil {
		v := *p.Existing
		out.Existing = &v
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

/* =======================
   Formulas
======================= */

// WeightedScore = answerScore * questionWeight / 100. No clamping.
func WeightedScore(answerScore, questionWeight float64) float64 {
	return answerScore * questionWeight / 100
}

type bracket struct {
	min    float64
	rating string
}

// Evaluated top-down; first match wins.
var brackets = []bracket{
	{90, "A+"},
	{80, "A"},
	{70, "A-"},
	{60, "B"},
	{50, "C+"},
	{40, "C"},
	{30, "C-"},
}

const LowestRating = "D"

// Ratings lists every bracket from best to worst.
func Ratings() []string {
	out := make([]string, 0, len(brackets)+1)
	for _, b := range brackets {
		out = append(out, b.rating)
	}
	return append(out, LowestRating)
}

// RatingBracket classifies a total score.
func RatingBracket(total float64) string {
	for _, b := range brackets {
		if total >= b.min {
			return b.rating
		}
	}
	return LowestRating
}

// RatingRank orders ratings: higher is better, unknown ratings are -1.
func RatingRank(rating string) int {
	all := Ratings()
	for i, r := range all {
		if r == rating {
			return len(all) - 1 - i
		}
	}
	return -1
}
