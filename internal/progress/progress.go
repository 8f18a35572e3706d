// Package progress computes weighted syllabus completion.
//
// Each topic contributes weight/5 for every checklist flag that is set, so a
// topic with all five flags contributes its full weight. The overall figure is
// the sum of contributions over the sum of weights, as a percentage.
package progress

import (
	"fmt"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// Tier is a curricular year.
type Tier string

const (
	TierXI  Tier = "XI"
	TierXII Tier = "XII"
)

// Topic is one syllabus chapter and its exam weight.
type Topic struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Syllabus lists the topics of both tiers for a subject.
type Syllabus struct {
	ClassXI  []Topic `json:"class_xi"`
	ClassXII []Topic `json:"class_xii"`
}

// TopicKey returns the checklist key for a topic, "<tier>-<name>".
func TopicKey(tier Tier, name string) string {
	return string(tier) + "-" + name
}

// Checklist is the five-flag progress state of one topic.
type Checklist struct {
	Theory    bool `json:"theory"`
	Questions bool `json:"questions"`
	Revision1 bool `json:"revision1"`
	Revision2 bool `json:"revision2"`
	Revision3 bool `json:"revision3"`
}

// Count returns the number of flags set.
func (c Checklist) Count() int {
	n := 0
	for _, v := range []bool{c.Theory, c.Questions, c.Revision1, c.Revision2, c.Revision3} {
		if v {
			n++
		}
	}
	return n
}

// Get returns the flag named by field.
func (c Checklist) Get(field string) bool {
	switch field {
	case models.FieldTheory:
		return c.Theory
	case models.FieldQuestions:
		return c.Questions
	case models.FieldRevision1:
		return c.Revision1
	case models.FieldRevision2:
		return c.Revision2
	case models.FieldRevision3:
		return c.Revision3
	}
	return false
}

// With returns a copy of c with field set to value. Unknown fields are ignored.
func (c Checklist) With(field string, value bool) Checklist {
	switch field {
	case models.FieldTheory:
		c.Theory = value
	case models.FieldQuestions:
		c.Questions = value
	case models.FieldRevision1:
		c.Revision1 = value
	case models.FieldRevision2:
		c.Revision2 = value
	case models.FieldRevision3:
		c.Revision3 = value
	}
	return c
}

// FromRow converts a stored progress row.
func FromRow(row models.TopicProgress) Checklist {
	return Checklist{
		Theory:    row.Theory,
		Questions: row.Questions,
		Revision1: row.Revision1,
		Revision2: row.Revision2,
		Revision3: row.Revision3,
	}
}

// TopicPercent is the completion of a single topic as a percentage of its
// own weight. A zero weight yields 0.
func TopicPercent(weight float64, c Checklist) float64 {
	if weight <= 0 {
		return 0
	}
	return (weight / 5 * float64(c.Count())) / weight * 100
}

// Overall returns the weighted completion of the syllabus. Missing keys count
// as all-false.
func Overall(s Syllabus, state map[string]Checklist) float64 {
	var contributed, total float64
	add := func(tier Tier, topics []Topic) {
		for _, t := range topics {
			c := state[TopicKey(tier, t.Name)]
			contributed += t.Weight / 5 * float64(c.Count())
			total += t.Weight
		}
	}
	add(TierXI, s.ClassXI)
	add(TierXII, s.ClassXII)

	if total == 0 {
		return 0
	}
	return contributed / total * 100
}

// Format renders a percentage with one decimal.
func Format(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
