package domain

// Default knowledge-base query parameters.
const (
	DefaultAnswerTop       = 3
	DefaultScoreThreshold  = 0.5
	QuestionScoreThreshold = 0.8
	CategoryMetadataName   = "type"
)

// QueryOptions tunes a knowledge-base query.
type QueryOptions struct {
	Top            int
	ScoreThreshold float64
	// Category, when set, is attached as a metadata filter on CategoryMetadataName.
	Category Category
}

// Answer is one knowledge-base answer, Score normalized to [0, 1].
type Answer struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}
