package ui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/apper-canvas/studyflow-beta-ether/core"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeRecordForm builds a write payload from submitted form values,
// walking the resource's writeable fields. Values are validated and
// converted per field type before the client applies its own whitelist
// filtering. All problems are aggregated into a single error so the form
// can report everything at once.
func decodeRecordForm(r *http.Request, resource *core.Resource) (core.Record, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	payload := core.Record{}
	var problems []string

	for _, field := range resource.Fields {
		if field.Identifier || field.ReadOnly {
			continue
		}

		raw := strings.TrimSpace(r.PostForm.Get(field.Name))

		// Checkboxes submit nothing when unchecked
		if field.Type == core.FieldBoolean {
			payload[field.Name] = raw == "on" || raw == "true"
			continue
		}

		if raw == "" {
			if field.Required {
				if err := validate.Var(raw, "required"); err != nil {
					problems = append(problems, field.Label+" is required")
				}
			}
			continue
		}

		switch field.Type {
		case core.FieldNumber:
			if err := validate.Var(raw, "numeric"); err != nil {
				problems = append(problems, field.Label+" must be a number")
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				problems = append(problems, field.Label+" must be a number")
				continue
			}
			payload[field.Name] = n
		case core.FieldDate:
			if err := validate.Var(raw, "datetime=2006-01-02"); err != nil {
				problems = append(problems, field.Label+" must be a date (YYYY-MM-DD)")
				continue
			}
			payload[field.Name] = raw
		case core.FieldDateTime:
			if err := validate.Var(raw, "datetime=2006-01-02T15:04"); err != nil {
				problems = append(problems, field.Label+" must be a date and time")
				continue
			}
			payload[field.Name] = raw
		case core.FieldPicklist:
			if len(field.Choices) > 0 && !containsChoice(field.Choices, raw) {
				problems = append(problems, field.Label+" must be one of: "+strings.Join(field.Choices, ", "))
				continue
			}
			payload[field.Name] = raw
		case core.FieldTags:
			payload[field.Name] = normalizeTags(raw)
		default:
			payload[field.Name] = raw
		}
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return payload, nil
}

func containsChoice(choices []string, value string) bool {
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}

// normalizeTags rewrites a user-entered tag list as the canonical
// comma-joined form the remote backend stores
func normalizeTags(raw string) string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, ",")
}
