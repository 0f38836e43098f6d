// Package cards renders the embedded adaptive-card templates.
package cards

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed templates/*.json
var templates embed.FS

//go:embed schema.json
var schemaJSON []byte

// Files maps card ids to template file names.
var Files = map[domain.CardID]string{
	domain.CardMenu:              "MenuCard.json",
	domain.CardMenuRetry:         "RetryMenuCard.json",
	domain.CardKPMGCategory:      "KpmgCareerCard.json",
	domain.CardKPMGCategoryRetry: "RetryKpmgCareerCard.json",
}

// Renderer implements ports.CardRenderer over pre-validated templates.
type Renderer struct {
	cards map[domain.CardID]domain.Attachment
}

// New loads the built-in templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub)
}

// NewFromFS loads every template listed in Files from fsys, validating each
// against the card schema.
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("load card schema: %w", err)
	}

	r := &Renderer{cards: make(map[domain.CardID]domain.Attachment, len(Files))}
	for id, name := range Files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read card %s: %w", id, err)
		}

		result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("validate card %s: %w", id, err)
		}
		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for i, desc := range result.Errors() {
				errs[i] = desc.String()
			}
			return nil, fmt.Errorf("card %s is invalid: %s", id, strings.Join(errs, "; "))
		}

		choices, err := submitTitles(raw)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", id, err)
		}
		r.cards[id] = domain.Attachment{
			ContentType: domain.AdaptiveCardContentType,
			Content:     json.RawMessage(raw),
			Choices:     choices,
		}
	}
	return r, nil
}

// Render returns the attachment for id.
func (r *Renderer) Render(id domain.CardID) (domain.Attachment, error) {
	a, ok := r.cards[id]
	if !ok {
		return domain.Attachment{}, fmt.Errorf("%w: %s", domain.ErrUnknownCard, id)
	}
	a.Choices = append([]string(nil), a.Choices...)
	return a, nil
}

func submitTitles(raw []byte) ([]string, error) {
	var card struct {
		Actions []struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"actions"`
	}
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, err
	}
	var titles []string
	for _, a := range card.Actions {
		if a.Type == "Action.Submit" {
			titles = append(titles, a.Title)
		}
	}
	return titles, nil
}
