// Package models defines the persistent data structures for studydeck.
package models

import "strings"

// Subject identifies one of the exam subjects.
type Subject string

const (
	SubjectMaths     Subject = "maths"
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{SubjectMaths, SubjectPhysics, SubjectChemistry}

// ParseSubject returns the subject for s and whether it is known.
func ParseSubject(s string) (Subject, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "maths", "math", "mathematics":
		return SubjectMaths, true
	case "physics":
		return SubjectPhysics, true
	case "chemistry", "chem":
		return SubjectChemistry, true
	}
	return "", false
}

// Title returns the capitalized subject name.
func (s Subject) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
