package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// EntryFields are the add-form values shared by questions and activities.
type EntryFields struct {
	Name   string
	Status models.EntryStatus
	Link   string
	Doubts string
}

// ValidateName rejects blank entry names.
func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a name is required")
	}
	return nil
}

// RunEntryForm asks for the fields still empty in f. kind labels the form
// ("question" or "activity").
func RunEntryForm(kind string, f *EntryFields) error {
	status := string(f.Status)
	if status == "" {
		status = string(models.StatusNotStarted)
	}

	var fields []huh.Field
	if f.Name == "" {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s name", capitalize(kind))).
			Value(&f.Name).
			Validate(ValidateName))
	}
	fields = append(fields,
		huh.NewSelect[string]().
			Title("Status").
			Options(BuildStatusOptions()...).
			Value(&status),
	)
	if f.Link == "" {
		fields = append(fields, huh.NewInput().
			Title("Link").
			Description("Optional").
			Value(&f.Link))
	}
	if f.Doubts == "" {
		fields = append(fields, huh.NewText().
			Title("Doubts").
			Description("Optional").
			Value(&f.Doubts))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}
	f.Status = models.EntryStatus(status)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
