package render

import (
	"math"
	"strconv"

	"pokesearch/internal/models"
	"pokesearch/internal/query"
	"pokesearch/internal/validation"
)

// Badge is a styled type label.
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// AttackRow is one line of an attack list.
type AttackRow struct {
	Name   string `json:"name"`
	Type   Badge  `json:"type"`
	Damage int    `json:"damage"`
}

// Card is the fully formatted Found view of a record.
type Card struct {
	Number         string             `json:"number"`
	Name           string             `json:"name"`
	ID             string             `json:"id"`
	Classification string             `json:"classification"`
	Image          string             `json:"image,omitempty"`
	Types          []Badge            `json:"types"`
	MaxCP          int                `json:"max_cp"`
	MaxHP          int                `json:"max_hp"`
	FleeRate       string             `json:"flee_rate"`
	Height         string             `json:"height"`
	Weight         string             `json:"weight"`
	FastAttacks    []AttackRow        `json:"fast_attacks"`
	SpecialAttacks []AttackRow        `json:"special_attacks"`
	Resistant      []Badge            `json:"resistant"`
	Weaknesses     []Badge            `json:"weaknesses"`
	Requirement    string             `json:"requirement"`
	Evolutions     []models.Evolution `json:"evolutions"`
	HasEvolutions  bool               `json:"has_evolutions"`
}

// View is everything the result region needs.
type View struct {
	State   State  `json:"state"`
	Term    string `json:"term"`
	Message string `json:"message,omitempty"`
	Card    *Card  `json:"card,omitempty"`
}

// Renderer builds views using a type palette.
type Renderer struct {
	palette Palette
}

// New creates a renderer. A nil palette uses DefaultPalette.
func New(palette Palette) *Renderer {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Renderer{palette: palette}
}

// Render computes the view for term from its lookup snapshot.
// An empty term is the idle view; a missing entry counts as loading.
func (r *Renderer) Render(term string, snap query.Snapshot) View {
	hasSearch := term != ""
	loading := snap.Status == query.StatusLoading || snap.Status == query.StatusMissing

	state := Resolve(hasSearch, loading, snap.Err, snap.Pokemon)
	v := View{State: state, Term: term}
	switch state {
	case Failed:
		v.Message = snap.Err.Error()
	case Found:
		v.Card = r.card(snap.Pokemon)
	}
	return v
}

func (r *Renderer) card(p *models.Pokemon) *Card {
	return &Card{
		Number:         "#" + p.Number,
		Name:           p.Name,
		ID:             p.ID,
		Classification: p.Classification,
		Image:          validation.SafeImageURL(p.Image),
		Types:          r.badges(p.Types),
		MaxCP:          p.MaxCP,
		MaxHP:          p.MaxHP,
		FleeRate:       FleeRate(p.FleeRate),
		Height:         Span(p.Height),
		Weight:         Span(p.Weight),
		FastAttacks:    r.attacks(p.Attacks.Fast),
		SpecialAttacks: r.attacks(p.Attacks.Special),
		Resistant:      r.badges(p.Resistant),
		Weaknesses:     r.badges(p.Weaknesses),
		Requirement:    Requirement(p.EvolutionRequirements),
		Evolutions:     p.Evolutions,
		HasEvolutions:  p.HasEvolutions(),
	}
}

func (r *Renderer) badges(labels []string) []Badge {
	out := make([]Badge, 0, len(labels))
	for _, l := range labels {
		out = append(out, Badge{Label: l, Class: r.palette.Class(l)})
	}
	return out
}

func (r *Renderer) attacks(list []models.Attack) []AttackRow {
	out := make([]AttackRow, 0, len(list))
	for _, a := range list {
		out = append(out, AttackRow{
			Name:   a.Name,
			Type:   Badge{Label: a.Type, Class: r.palette.Class(a.Type)},
			Damage: a.Damage,
		})
	}
	return out
}

// FleeRate formats a 0..1 rate as a whole percentage, rounding halves up.
func FleeRate(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return "-"
	}
	return strconv.FormatFloat(math.Floor(rate*100+0.5), 'f', 0, 64) + "%"
}

// Span formats a dimension range.
func Span(d models.Dimension) string {
	return d.Minimum + " - " + d.Maximum
}

// Requirement formats the evolution cost, or "None".
func Requirement(req *models.EvolutionRequirement) string {
	if req == nil {
		return "None"
	}
	return strconv.Itoa(req.Amount) + " " + req.Name
}
