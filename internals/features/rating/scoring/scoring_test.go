package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingBracket_Boundaries(t *testing.T) {
	cases := map[float64]string{
		90:   "A+",
		80:   "A",
		70:   "A-",
		60:   "B",
		50:   "C+",
		40:   "C",
		30:   "C-",
		0:    "D",
		89.9: "A",
		29.9: "D",
		100:  "A+",
		-5:   "D",
		150:  "A+",
	}
	for score, want := range cases {
		assert.Equalf(t, want, RatingBracket(score), "score %v", score)
	}
}

func TestRatingBracket_Monotonic(t *testing.T) {
	prev := RatingRank(RatingBracket(-10))
	for s := -10.0; s <= 110; s += 0.5 {
		rank := RatingRank(RatingBracket(s))
		require.GreaterOrEqualf(t, rank, prev, "bracket dropped at %v", s)
		prev = rank
	}
}

func TestRatingRank_Order(t *testing.T) {
	assert.Equal(t, []string{"A+", "A", "A-", "B", "C+", "C", "C-", "D"}, Ratings())
	assert.Greater(t, RatingRank("A+"), RatingRank("A"))
	assert.Greater(t, RatingRank("C-"), RatingRank("D"))
	assert.Equal(t, -1, RatingRank("Z"))
}

func TestWeightedScore(t *testing.T) {
	assert.Equal(t, 32.0, WeightedScore(80, 40))
	assert.Equal(t, 80.0, WeightedScore(80, 100))
	// out of range input is not clamped
	assert.Equal(t, 300.0, WeightedScore(200, 150))
}

func TestNormalizeCustomerType(t *testing.T) {
	cases := map[string]CustomerType{
		"new":       CustomerNew,
		"NEW":       CustomerNew,
		" New ":     CustomerNew,
		"existing":  CustomerExisting,
		"Existing":  CustomerExisting,
		"exist-ing": CustomerExisting,
		"EXIST_ING": CustomerExisting,
		"ex.isting": CustomerExisting,
	}
	for raw, want := range cases {
		got, ok := NormalizeCustomerType(raw)
		assert.Truef(t, ok, "raw %q", raw)
		assert.Equalf(t, want, got, "raw %q", raw)
	}

	_, ok := NormalizeCustomerType("returning")
	assert.False(t, ok)
	_, ok = NormalizeCustomerType("")
	assert.False(t, ok)
}

func TestPairFor_Fallbacks(t *testing.T) {
	p := NewPair(40, 30)
	assert.Equal(t, 40.0, p.For("new"))
	assert.Equal(t, 30.0, p.For("Existing"))
	assert.Equal(t, 40.0, p.For("unknown"), "unknown types fall back to new")

	existingOnly := 25.0
	assert.Equal(t, 25.0, Pair{Existing: &existingOnly}.For("unknown"))
	assert.Equal(t, 0.0, Pair{}.For("unknown"))
	assert.Equal(t, 0.0, Pair{Existing: &existingOnly}.For("new"), "matched side absent yields 0")
}

func sampleSheet() Sheet {
	return Sheet{Categories: []Category{
		{
			ID:   "c1",
			Name: "Income",
			Questions: []Question{
				{ID: "q1", Text: "Monthly income", Weight: NewPair(40, 50), Answers: []Answer{
					{ID: "a1", Text: "High", Score: NewPair(80, 90)},
					{ID: "a2", Text: "Low", Score: NewPair(20, 10)},
				}},
				{ID: "q2", Text: "Stability", Weight: NewPair(60, 50), Answers: []Answer{
					{ID: "a3", Text: "Stable", Score: NewPair(100, 100)},
				}},
			},
		},
		{
			ID:   "c2",
			Name: "Collateral",
			Questions: []Question{
				{ID: "q3", Text: "Has collateral", Weight: NewPair(100, 100), Answers: []Answer{
					{ID: "a4", Text: "Yes", Score: NewPair(50, 70)},
				}},
			},
		},
		{ID: "c3", Name: "Unanswered"},
	}}
}

func TestEvaluate_SumIdentities(t *testing.T) {
	res := Evaluate(sampleSheet(), []Selection{
		{QuestionID: "q1", AnswerID: "a1"},
		{QuestionID: "q2", AnswerID: "a3"},
		{QuestionID: "q3", AnswerID: "a4"},
	}, "new")

	require.Len(t, res.Lines, 3)
	assert.Equal(t, 32.0, res.Lines[0].WeightedScore)
	assert.Equal(t, 60.0, res.Lines[1].WeightedScore)
	assert.Equal(t, 50.0, res.Lines[2].WeightedScore)

	require.Len(t, res.CategoryScores, 3)
	assert.Equal(t, CategoryScore{CategoryName: "Income", Score: 92}, res.CategoryScores[0])
	assert.Equal(t, CategoryScore{CategoryName: "Collateral", Score: 50}, res.CategoryScores[1])
	assert.Equal(t, CategoryScore{CategoryName: "Unanswered", Score: 0}, res.CategoryScores[2])

	var sumCategories, sumLines float64
	for _, c := range res.CategoryScores {
		sumCategories += c.Score
	}
	for _, l := range res.Lines {
		sumLines += l.WeightedScore
	}
	assert.Equal(t, sumCategories, res.TotalScore)
	assert.Equal(t, sumLines, res.TotalScore)
	assert.Equal(t, 142.0, res.TotalScore)
	assert.Equal(t, "A+", res.Rating)
}

func TestEvaluate_PerSelectionCustomerType(t *testing.T) {
	res := Evaluate(sampleSheet(), []Selection{
		{QuestionID: "q1", AnswerID: "a1", CustomerType: "EXISTING"},
	}, "new")
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 50.0, res.Lines[0].Weight)
	assert.Equal(t, 90.0, res.Lines[0].Score)
	assert.Equal(t, 45.0, res.TotalScore)
	assert.Equal(t, "C", res.Rating)
}

func TestEvaluate_UnknownSelectionsDegrade(t *testing.T) {
	res := Evaluate(sampleSheet(), []Selection{
		{QuestionID: "q1", AnswerID: "missing"},
		{QuestionID: "nope", AnswerID: "a1"},
	}, "new")
	require.Len(t, res.Lines, 2)

	assert.False(t, res.Lines[0].Matched)
	assert.Equal(t, "Income", res.Lines[0].CategoryName)
	assert.Equal(t, "Monthly income", res.Lines[0].QuestionText)
	assert.Equal(t, "", res.Lines[0].AnswerText)
	assert.Equal(t, 0.0, res.Lines[0].WeightedScore)

	assert.False(t, res.Lines[1].Matched)
	assert.Equal(t, "", res.Lines[1].CategoryName)
	assert.Equal(t, 0.0, res.TotalScore)
	assert.Equal(t, "D", res.Rating)
}
