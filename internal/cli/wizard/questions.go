package wizard

import (
	"strconv"

	"github.com/modu-ai/webproj/internal/config"
	"github.com/modu-ai/webproj/internal/core/project"
)

// Preset carries values supplied on the command line. A nil field is asked.
type Preset struct {
	Name        *string
	Description *string
	Author      *string
	Port        *string
}

// DefaultQuestions returns the four metadata questions. Config defaults
// become blank-answer defaults; preset values are fixed.
func DefaultQuestions(preset Preset, defaults config.DefaultsConfig) []Question {
	port := ""
	if defaults.Port != 0 {
		port = strconv.Itoa(defaults.Port)
	}
	qs := []Question{
		{
			ID:          IDName,
			Title:       "Project name",
			Description: "Leave blank for " + project.DefaultNamePrefix + "<date>.",
		},
		{
			ID:          IDDescription,
			Title:       "Description",
			Description: "One line for the README and package.json.",
			Default:     defaults.Description,
		},
		{
			ID:          IDAuthor,
			Title:       "Author",
			Description: "Leave blank to use your login name.",
			Default:     defaults.Author,
		},
		{
			ID:          IDPort,
			Title:       "Development server port",
			Description: "1024-65535; anything else falls back to 3000.",
			Default:     port,
		},
	}
	fix := func(id string, v *string) {
		if v == nil {
			return
		}
		for i := range qs {
			if qs[i].ID == id {
				qs[i].Fixed = true
				qs[i].Value = *v
			}
		}
	}
	fix(IDName, preset.Name)
	fix(IDDescription, preset.Description)
	fix(IDAuthor, preset.Author)
	fix(IDPort, preset.Port)
	return qs
}

// RawInput converts answers to resolver input.
func (a Answers) RawInput() project.RawInput {
	return project.RawInput{
		Name:        a[IDName],
		Description: a[IDDescription],
		Author:      a[IDAuthor],
		Port:        a[IDPort],
	}
}
