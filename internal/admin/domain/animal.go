package domain

import "time"

// AnimalKind distinguishes missing reports from found reports.
type AnimalKind string

const (
	AnimalMissing AnimalKind = "missing"
	AnimalFound   AnimalKind = "found"
)

// Valid reports whether the kind is one of the known listing types.
func (k AnimalKind) Valid() bool {
	return k == AnimalMissing || k == AnimalFound
}

// Animal is a lost-or-found animal listing as returned by the upstream API.
type Animal struct {
	ID        string     `json:"id"`
	Kind      AnimalKind `json:"kind"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed"`
	ImageURL  string     `json:"imageUrl"`
	Region    string     `json:"region"`
	Reporter  string     `json:"reporter"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}
