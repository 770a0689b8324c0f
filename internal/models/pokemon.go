package models

// Dimension is a min/max range as reported by the remote API (e.g. "0.61m").
type Dimension struct {
	Minimum string `json:"minimum"`
	Maximum string `json:"maximum"`
}

// Attack is a single fast or special move.
type Attack struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Damage int    `json:"damage"`
}

// Attacks groups the fast and special move lists.
type Attacks struct {
	Fast    []Attack `json:"fast"`
	Special []Attack `json:"special"`
}

// Evolution references another Pokemon in the chain.
type Evolution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EvolutionRequirement is the candy cost to evolve.
type EvolutionRequirement struct {
	Amount int    `json:"amount"`
	Name   string `json:"name"`
}

// Pokemon is an immutable snapshot returned by the remote source for a name.
type Pokemon struct {
	ID                    string                `json:"id"`
	Number                string                `json:"number"`
	Name                  string                `json:"name"`
	Image                 string                `json:"image"`
	Classification        string                `json:"classification"`
	Types                 []string              `json:"types"`
	Resistant             []string              `json:"resistant"`
	Weaknesses            []string              `json:"weaknesses"`
	FleeRate              float64               `json:"fleeRate"`
	MaxCP                 int                   `json:"maxCP"`
	MaxHP                 int                   `json:"maxHP"`
	Height                Dimension             `json:"height"`
	Weight                Dimension             `json:"weight"`
	Attacks               Attacks               `json:"attacks"`
	Evolutions            []Evolution           `json:"evolutions"`
	EvolutionRequirements *EvolutionRequirement `json:"evolutionRequirements"`
}

// HasEvolutions returns true if the record lists at least one evolution.
func (p *Pokemon) HasEvolutions() bool {
	return len(p.Evolutions) > 0
}
