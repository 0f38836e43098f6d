package dialog

import (
	"fmt"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

const (
	valueOrganization = "organization"
	valueQuestionType = "questionType"
)

// stepValues is the typed view of a frame's value bag.
type stepValues struct {
	Organization domain.Organization `mapstructure:"organization"`
	QuestionType domain.Category     `mapstructure:"questionType"`
}

func readValues(f *domain.Frame) (stepValues, error) {
	var v stepValues
	if err := mapstructure.Decode(f.Values, &v); err != nil {
		return v, fmt.Errorf("decode %s frame values: %w", f.Dialog, err)
	}
	return v, nil
}

func (v stepValues) write(f *domain.Frame) {
	f.Values = make(map[string]any, 2)
	if v.Organization != "" {
		f.Values[valueOrganization] = string(v.Organization)
	}
	if v.QuestionType != "" {
		f.Values[valueQuestionType] = string(v.QuestionType)
	}
}
