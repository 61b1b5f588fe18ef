package model

import "fmt"

// OptionKind names one of the configurable pick-lists used to pre-fill
// report form fields.
type OptionKind string

const (
	OptionHazardLevels OptionKind = "hazard_levels"
	OptionHazardTypes  OptionKind = "hazard_types"
	OptionIndustries   OptionKind = "industries"
	OptionUnitTypes    OptionKind = "unit_types"
)

// OptionKinds lists all pick-lists in display order.
var OptionKinds = []OptionKind{
	OptionHazardLevels,
	OptionHazardTypes,
	OptionIndustries,
	OptionUnitTypes,
}

// ParseOptionKind maps a user-supplied kind name to an OptionKind.
func ParseOptionKind(s string) (OptionKind, error) {
	for _, k := range OptionKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown option kind %q (valid: %v)", s, OptionKinds)
}

// OptionSets is the settings document: four ordered lists of unique entries.
// The entry string itself is the key; no internal id exists.
type OptionSets struct {
	HazardLevels []string `json:"hazardLevels" yaml:"hazard_levels"`
	HazardTypes  []string `json:"hazardTypes" yaml:"hazard_types"`
	Industries   []string `json:"industries" yaml:"industries"`
	UnitTypes    []string `json:"unitTypes" yaml:"unit_types"`
}

// List returns the entries for one kind.
func (o *OptionSets) List(kind OptionKind) []string {
	switch kind {
	case OptionHazardLevels:
		return o.HazardLevels
	case OptionHazardTypes:
		return o.HazardTypes
	case OptionIndustries:
		return o.Industries
	case OptionUnitTypes:
		return o.UnitTypes
	}
	return nil
}

// SetList replaces the entries for one kind.
func (o *OptionSets) SetList(kind OptionKind, values []string) {
	switch kind {
	case OptionHazardLevels:
		o.HazardLevels = values
	case OptionHazardTypes:
		o.HazardTypes = values
	case OptionIndustries:
		o.Industries = values
	case OptionUnitTypes:
		o.UnitTypes = values
	}
}

// Clone returns a deep copy of all four lists.
func (o OptionSets) Clone() OptionSets {
	clone := func(in []string) []string {
		if in == nil {
			return nil
		}
		out := make([]string, len(in))
		copy(out, in)
		return out
	}
	return OptionSets{
		HazardLevels: clone(o.HazardLevels),
		HazardTypes:  clone(o.HazardTypes),
		Industries:   clone(o.Industries),
		UnitTypes:    clone(o.UnitTypes),
	}
}
