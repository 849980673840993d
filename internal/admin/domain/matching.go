package domain

// MatchedAnimal is one side of a matching-history entry.
type MatchedAnimal struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Species  string `json:"type"`
	Breed    string `json:"breed"`
	ImageURL string `json:"image"`
	Contact  string `json:"contact,omitempty"`
}

// MatchRecord is one similarity-matching run between a missing and a found
// animal, produced by the external AI service and recorded upstream.
type MatchRecord struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	MissingAnimal MatchedAnimal `json:"missingAnimal"`
	FoundAnimal   MatchedAnimal `json:"foundAnimal"`
	Similarity    float64       `json:"similarity"`
	Status        string        `json:"status"`
	MatchType     string        `json:"matchType"`
}
