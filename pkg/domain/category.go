package domain

import "strings"

// Category is a question category used as the knowledge-base metadata filter.
type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryApplication Category = "application"
	CategoryAssessment  Category = "assessment"
	CategoryInterviews  Category = "interviews"
	CategoryOffer       Category = "offer"
	CategoryStarting    Category = "starting"
)

// Categories lists the accepted categories in card order.
var Categories = []Category{
	CategoryGeneral,
	CategoryApplication,
	CategoryAssessment,
	CategoryInterviews,
	CategoryOffer,
	CategoryStarting,
}

// categoryPhrases are the card button titles accepted when no classifier is configured.
var categoryPhrases = map[string]Category{
	"general questions": CategoryGeneral,
	"applying":          CategoryApplication,
	"assessment test":   CategoryAssessment,
	"interviews":        CategoryInterviews,
	"the offer stage":   CategoryOffer,
	"starting new job":  CategoryStarting,
}

// ParseCategory accepts a category key, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	key := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == key {
			return c, true
		}
	}
	return "", false
}

// CategoryFromPhrase maps one of the fixed menu phrases to its category.
func CategoryFromPhrase(s string) (Category, bool) {
	c, ok := categoryPhrases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}


// CategoryFromEntity maps an extracted question-type entity to a category.
// Known keys are canonicalized; anything else is kept verbatim and still
// filters the knowledge base.
func CategoryFromEntity(s string) Category {
	if c, ok := ParseCategory(s); ok {
		return c
	}
	return Category(strings.TrimSpace(s))
}
