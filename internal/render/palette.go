package render

import "strings"

// UnknownTypeClass styles any type label missing from the palette.
const UnknownTypeClass = "type-unknown"

// Palette maps lower-cased type names to badge classes.
type Palette map[string]string

// DefaultPalette covers the eighteen core types.
func DefaultPalette() Palette {
	p := make(Palette)
	for _, t := range []string{
		"normal", "fire", "water", "electric", "grass", "ice",
		"fighting", "poison", "ground", "flying", "psychic", "bug",
		"rock", "ghost", "dragon", "dark", "steel", "fairy",
	} {
		p[t] = "type-" + t
	}
	return p
}

// Merge returns a copy of p with overrides applied. Override keys are
// normalized the same way lookups are.
func (p Palette) Merge(overrides map[string]string) Palette {
	out := make(Palette, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// Class returns the badge class for a type label.
func (p Palette) Class(typeName string) string {
	if class, ok := p[strings.ToLower(strings.TrimSpace(typeName))]; ok {
		return class
	}
	return UnknownTypeClass
}
