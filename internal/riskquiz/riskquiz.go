// Package riskquiz scores the risk-tolerance questionnaire.
//
// Each question has four mutually exclusive options scored 1-4, ascending
// with risk appetite. The raw score is the sum of the selected option
// scores; the tolerance tier is derived from its share of the maximum:
//
//	pct <= 40      conservative
//	40 < pct <= 70 moderate
//	pct > 70       aggressive
package riskquiz

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sanchay/advisor-engine/internal/model"
)

//go:embed questions.yaml
var embedded []byte

const (
	conservativeCeiling = 40
	moderateCeiling     = 70
	optionsPerQuestion  = 4
)

var (
	ErrIncompleteAnswers = errors.New("riskquiz: every question must be answered")
	ErrUnknownQuestion   = errors.New("riskquiz: unknown question")
	ErrUnknownOption     = errors.New("riskquiz: unknown option")
	ErrDuplicateAnswer   = errors.New("riskquiz: question answered more than once")
	ErrInvalidDefinition = errors.New("riskquiz: invalid questionnaire definition")
)

// Option is one selectable answer.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
	Score int    `json:"score" yaml:"score"`
}

// Question is one questionnaire item.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// Result is a scored submission.
type Result struct {
	Answers         []model.RiskAnswer  `json:"answers"`
	RawScore        int                 `json:"raw_score"`
	MaxScore        int                 `json:"max_score"`
	ScorePercentage float64             `json:"score_percentage"`
	Tolerance       model.RiskTolerance `json:"risk_tolerance"`
}

// Questionnaire is an immutable set of questions.
type Questionnaire struct {
	questions []Question
	byID      map[string]int
	maxScore  int
}

// Default returns the embedded questionnaire, parsed once.
var Default = sync.OnceValue(func() *Questionnaire {
	q, err := Parse(bytes.NewReader(embedded))
	if err != nil {
		panic(fmt.Sprintf("riskquiz: embedded questionnaire is invalid: %v", err))
	}
	return q
})

// Parse decodes and validates a YAML questionnaire document.
func Parse(r io.Reader) (*Questionnaire, error) {
	var doc struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("riskquiz: decode: %w", err)
	}
	return New(doc.Questions)
}

// New validates questions and builds a questionnaire.
func New(questions []Question) (*Questionnaire, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidDefinition)
	}
	q := &Questionnaire{
		questions: questions,
		byID:      make(map[string]int, len(questions)),
	}
	for i, question := range questions {
		if _, dup := q.byID[question.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question %s", ErrInvalidDefinition, question.ID)
		}
		if len(question.Options) != optionsPerQuestion {
			return nil, fmt.Errorf("%w: %s has %d options", ErrInvalidDefinition, question.ID, len(question.Options))
		}
		seen := make(map[int]bool, optionsPerQuestion)
		best := 0
		for _, opt := range question.Options {
			if opt.Score < 1 || opt.Score > optionsPerQuestion || seen[opt.Score] {
				return nil, fmt.Errorf("%w: %s option %s score %d", ErrInvalidDefinition, question.ID, opt.Value, opt.Score)
			}
			seen[opt.Score] = true
			best = max(best, opt.Score)
		}
		q.byID[question.ID] = i
		q.maxScore += best
	}
	return q, nil
}

// Questions returns the questions in presentation order. Read-only.
func (q *Questionnaire) Questions() []Question {
	return q.questions
}

// MaxScore is the highest achievable raw score.
func (q *Questionnaire) MaxScore() int {
	return q.maxScore
}

// Assess scores a complete answer set. Every question must be answered
// exactly once with one of its options; the returned answers carry the
// option scores in questionnaire order.
func (q *Questionnaire) Assess(answers []model.RiskAnswer) (Result, error) {
	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, ok := q.byID[a.QuestionID]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, a.QuestionID)
		}
		if _, dup := selected[a.QuestionID]; dup {
			return Result{}, fmt.Errorf("%w: %s", ErrDuplicateAnswer, a.QuestionID)
		}
		selected[a.QuestionID] = a.OptionValue
	}
	if len(selected) != len(q.questions) {
		return Result{}, fmt.Errorf("%w: %d of %d answered", ErrIncompleteAnswers, len(selected), len(q.questions))
	}

	scored := make([]model.RiskAnswer, 0, len(q.questions))
	for _, question := range q.questions {
		value := selected[question.ID]
		opt, ok := findOption(question, value)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s=%s", ErrUnknownOption, question.ID, value)
		}
		scored = append(scored, model.RiskAnswer{
			QuestionID:  question.ID,
			OptionValue: value,
			Score:       opt.Score,
		})
	}

	raw := ScoreAnswers(scored)
	pct, tolerance := Classify(raw, q.maxScore)
	return Result{
		Answers:         scored,
		RawScore:        raw,
		MaxScore:        q.maxScore,
		ScorePercentage: pct,
		Tolerance:       tolerance,
	}, nil
}

func findOption(question Question, value string) (Option, bool) {
	for _, opt := range question.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// ScoreAnswers sums the scores of whatever answers are given. It does not
// check completeness, so a partial set yields a lower score.
func ScoreAnswers(answers []model.RiskAnswer) int {
	total := 0
	for _, a := range answers {
		total += a.Score
	}
	return total
}

// Classify maps a raw score to its percentage of maxScore (rounded to two
// places) and a tolerance tier. Tier boundaries are compared in integer
// arithmetic so rounding never moves a score across a boundary.
func Classify(raw, maxScore int) (float64, model.RiskTolerance) {
	if maxScore <= 0 {
		return 0, model.Conservative
	}
	pct := math.Round(float64(raw)*100/float64(maxScore)*100) / 100

	switch {
	case raw*100 <= conservativeCeiling*maxScore:
		return pct, model.Conservative
	case raw*100 <= moderateCeiling*maxScore:
		return pct, model.Moderate
	default:
		return pct, model.Aggressive
	}
}
