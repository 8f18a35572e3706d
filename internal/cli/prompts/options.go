// Package prompts provides interactive CLI prompt components using charmbracelet/huh.
package prompts

import (
	"github.com/charmbracelet/huh"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// BuildSubjectOptions creates huh options for the three subjects.
func BuildSubjectOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(models.Subjects))
	for _, s := range models.Subjects {
		options = append(options, huh.NewOption(s.Title(), string(s)))
	}
	return options
}

// BuildStatusOptions creates huh options in status cycle order.
func BuildStatusOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(models.Statuses))
	for _, s := range models.Statuses {
		options = append(options, huh.NewOption(string(s), string(s)))
	}
	return options
}

// RunSubjectSelector asks for a subject.
func RunSubjectSelector() (models.Subject, error) {
	selected := string(models.SubjectMaths)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select subject").
				Options(BuildSubjectOptions()...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return models.Subject(selected), nil
}
