package hominid

import (
	"errors"
	"fmt"
)

// ErrNotRecognized is returned when a categorical field holds text outside its vocabulary.
var ErrNotRecognized = errors.New("not recognized")

// TechType classifies the technology a species used, ordered by sophistication.
type TechType int

const (
	NoTech TechType = iota
	Primitive
	Mode1
	Mode2
	Mode3
	Mode4
)

var techNames = [...]string{"no tech", "primitive", "mode 1", "mode 2", "mode 3", "mode 4"}

// AllTechTypes returns every TechType in declared order.
func AllTechTypes() []TechType {
	return []TechType{NoTech, Primitive, Mode1, Mode2, Mode3, Mode4}
}

// Rank is the ordinal encoding used for rank correlation (0 for NoTech up to 5 for Mode4).
func (t TechType) Rank() int { return int(t) }

// Valid reports whether t is one of the declared tech types.
func (t TechType) Valid() bool { return t >= NoTech && t <= Mode4 }

func (t TechType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TechType(%d)", int(t))
	}
	return techNames[t]
}

// ParseTechType maps the raw technology-type label. "no tech" is not part of the
// vocabulary; it only results from a negative technology flag.
func ParseTechType(s string) (TechType, error) {
	switch s {
	case "primitive":
		return Primitive, nil
	case "mode 1":
		return Mode1, nil
	case "mode 2":
		return Mode2, nil
	case "mode 3":
		return Mode3, nil
	case "mode 4":
		return Mode4, nil
	}
	return NoTech, fmt.Errorf("tech type %q: %w", s, ErrNotRecognized)
}

// ParseTechFlag maps the "uses technology" flag. "likely" counts as yes.
func ParseTechFlag(s string) (bool, error) {
	switch s {
	case "yes", "likely":
		return true, nil
	case "no":
		return false, nil
	}
	return false, fmt.Errorf("tech flag %q: %w", s, ErrNotRecognized)
}

// ResolveTech collapses the flag and the type label into a single TechType.
// The label is ignored when the flag is negative.
func ResolveTech(flag, label string) (TechType, error) {
	uses, err := ParseTechFlag(flag)
	if err != nil {
		return NoTech, err
	}
	if !uses {
		return NoTech, nil
	}
	return ParseTechType(label)
}

// DietType is the dietary classification of a specimen.
type DietType int

const (
	Omnivore DietType = iota
	DryFruit
	HardFruit
	Carnivore
	SoftFruit
)

var dietNames = [...]string{"omnivore", "dry fruits", "hard fruits", "carnivorous", "soft fruits"}

func (d DietType) String() string {
	if d < Omnivore || d > SoftFruit {
		return fmt.Sprintf("DietType(%d)", int(d))
	}
	return dietNames[d]
}

// ParseDietType maps the raw diet label.
func ParseDietType(s string) (DietType, error) {
	for i, n := range dietNames {
		if s == n {
			return DietType(i), nil
		}
	}
	return Omnivore, fmt.Errorf("diet %q: %w", s, ErrNotRecognized)
}

// Record is one fossil specimen. The zero value is not meaningful; use NewRecord.
type Record struct {
	species  string
	cranial  float64
	height   float64
	tech     TechType
	diet     DietType
	sbrRatio float64
}

// NewRecord builds a Record and derives its skull-body ratio.
func NewRecord(species string, cranial, height float64, tech TechType, diet DietType) Record {
	return Record{
		species:  species,
		cranial:  cranial,
		height:   height,
		tech:     tech,
		diet:     diet,
		sbrRatio: cranial / height,
	}
}

func (r Record) Species() string          { return r.species }
func (r Record) CranialCapacity() float64 { return r.cranial }
func (r Record) Height() float64          { return r.height }
func (r Record) Tech() TechType           { return r.tech }
func (r Record) Diet() DietType           { return r.diet }
func (r Record) SkullBodyRatio() float64  { return r.sbrRatio }
