// file: internals/features/rating/scoring/evaluate.go
package scoring

/* =======================
   Input shapes
======================= */

type Sheet struct {
	Categories []Category
}

type Category struct {
	ID        string
	Name      string
	Questions []Question
}

type Question struct {
	ID      string
	Text    string
	Weight  Pair
	Answers []Answer
}

type Answer struct {
	ID    string
	Text  string
	Score Pair
}

// Selection is one raw answer pick. CustomerType overrides the assessment
// level type when set.
type Selection struct {
	QuestionID   string
	AnswerID     string
	CustomerType string
}

/* =======================
   Output shapes
======================= */

type Line struct {
	QuestionID    string
	AnswerID      string
	CategoryID    string
	CategoryName  string
	QuestionText  string
	AnswerText    string
	CustomerType  string
	Weight        float64
	Score         float64
	WeightedScore float64
	Matched       bool
}

type CategoryScore struct {
	CategoryName string  `json:"categoryName"`
	Score        float64 `json:"score"`
}

type Result struct {
	Lines          []Line
	CategoryScores []CategoryScore
	TotalScore     float64
	Rating         string
}

/* =======================
   Lookup
======================= */

// Locate finds the category/question/answer triple for a selection. The
// returned pointers are nil when the corresponding level is not found.
func (s *Sheet) Locate(questionID, answerID string) (*Category, *Question, *Answer) {
	for ci := range s.Categories {
		c := &s.Categories[ci]
		for qi := range c.Questions {
			q := &c.Questions[qi]
			if q.ID != questionID {
				continue
			}
			for ai := range q.Answers {
				if q.Answers[ai].ID == answerID {
					return c, q, &q.Answers[ai]
				}
			}
			return c, q, nil
		}
	}
	return nil, nil, nil
}

/* =======================
   Evaluate
======================= */

// Evaluate scores selections against a sheet. Selections that do not resolve
// to an answer produce a zero, unmatched line. Every category of the sheet
// appears in CategoryScores, in sheet order.
func Evaluate(sheet Sheet, selections []Selection, customerType string) Result {
	res := Result{
		Lines:          make([]Line, 0, len(selections)),
		CategoryScores: make([]CategoryScore, 0, len(sheet.Categories)),
	}

	byCategory := make(map[string]float64, len(sheet.Categories))

	for _, sel := range selections {
		ct := sel.CustomerType
		if ct == "" {
			ct = customerType
		}
		line := Line{
			QuestionID:   sel.QuestionID,
			AnswerID:     sel.AnswerID,
			CustomerType: ct,
		}

		c, q, a := sheet.Locate(sel.QuestionID, sel.AnswerID)
		if c != nil {
			line.CategoryID = c.ID
			line.CategoryName = c.Name
		}
		if q != nil {
			line.QuestionText = q.Text
			line.Weight = q.Weight.For(ct)
		}
		if a != nil {
			line.AnswerText = a.Text
			line.Score = a.Score.For(ct)
			line.WeightedScore = WeightedScore(line.Score, line.Weight)
			line.Matched = true
			byCategory[categoryKey(c)] += line.WeightedScore
		}
		res.Lines = append(res.Lines, line)
	}

	for ci := range sheet.Categories {
		c := &sheet.Categories[ci]
		score := byCategory[categoryKey(c)]
		res.CategoryScores = append(res.CategoryScores, CategoryScore{
			CategoryName: c.Name,
			Score:        score,
		})
		res.TotalScore += score
	}
	res.Rating = RatingBracket(res.TotalScore)
	return res
}

func categoryKey(c *Category) string {
	if c.ID != "" {
		return "id:" + c.ID
	}
	return "name:" + c.Name
}
