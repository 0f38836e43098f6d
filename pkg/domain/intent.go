package domain

// Intent is a classified purpose of an utterance.
type Intent string

const (
	IntentCareerQuestionType Intent = "CareerQuestionType"
	IntentGreeting           Intent = "Greeting"
	IntentNone               Intent = "None"
	IntentGoBack             Intent = "GoBack"
	IntentFinish             Intent = "Finish"
)

// Entities holds list-entity extractions. Each outer element is one match in
// the utterance, each inner slice the normalized values of that match.
type Entities struct {
	Organization [][]string `json:"CareerQuestion_Organization,omitempty"`
	QuestionType [][]string `json:"CareerQuestion_Type,omitempty"`
}

// Classification is the result of classifying one utterance.
type Classification struct {
	Text     string             `json:"text"`
	Intents  map[Intent]float64 `json:"intents"`
	Entities Entities           `json:"entities"`
}

// TopIntent returns the intent whose score is strictly greater than every
// other candidate and than minScore. When nothing beats minScore it returns
// (IntentNone, minScore). Equal scores are resolved by map iteration order.
func (c *Classification) TopIntent(minScore float64) (Intent, float64) {
	top, max := IntentNone, minScore
	if c == nil {
		return top, max
	}
	for intent, score := range c.Intents {
		if score > max {
			top, max = intent, score
		}
	}
	return top, max
}

// Organization returns the extracted organization when exactly one value was
// extracted and it names a known organization, NotSupported otherwise.
func (c *Classification) Organization() Organization {
	if c == nil {
		return OrganizationNotSupported
	}
	v, ok := singleValue(c.Entities.Organization)
	if !ok {
		return OrganizationNotSupported
	}
	o, _ := ParseOrganization(v)
	return o
}

// QuestionType returns the extracted question type when exactly one value was extracted.
func (c *Classification) QuestionType() (string, bool) {
	if c == nil {
		return "", false
	}
	return singleValue(c.Entities.QuestionType)
}

func singleValue(matches [][]string) (string, bool) {
	if len(matches) != 1 || len(matches[0]) != 1 {
		return "", false
	}
	return matches[0][0], true
}
