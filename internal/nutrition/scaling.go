package nutrition

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedUnit   = errors.New("unsupported unit")
	ErrIncompatibleUnits = errors.New("units measure different quantities")
	ErrInvalidReference  = errors.New("reference amount must be > 0")
	ErrInvalidAmount     = errors.New("amount must be > 0")
)

// Nutrients is the payload of a food at some quantity. Optional values stay
// nil when the source did not report them.
type Nutrients struct {
	Calories      float64  `json:"caloriesKcal" bson:"caloriesKcal"`
	ProteinG      float64  `json:"proteinG" bson:"proteinG"`
	CarbsG        float64  `json:"carbsG" bson:"carbsG"`
	FatG          float64  `json:"fatG" bson:"fatG"`
	FiberG        *float64 `json:"fiberG,omitempty" bson:"fiberG,omitempty"`
	SugarG        *float64 `json:"sugarG,omitempty" bson:"sugarG,omitempty"`
	SaturatedFatG *float64 `json:"saturatedFatG,omitempty" bson:"saturatedFatG,omitempty"`
	SodiumMg      *float64 `json:"sodiumMg,omitempty" bson:"sodiumMg,omitempty"`
	PotassiumMg   *float64 `json:"potassiumMg,omitempty" bson:"potassiumMg,omitempty"`
	CholesterolMg *float64 `json:"cholesterolMg,omitempty" bson:"cholesterolMg,omitempty"`
}

// Scale multiplies every present value by factor.
func (n Nutrients) Scale(factor float64) Nutrients {
	return Nutrients{
		Calories:      n.Calories * factor,
		ProteinG:      n.ProteinG * factor,
		CarbsG:        n.CarbsG * factor,
		FatG:          n.FatG * factor,
		FiberG:        scalePtr(n.FiberG, factor),
		SugarG:        scalePtr(n.SugarG, factor),
		SaturatedFatG: scalePtr(n.SaturatedFatG, factor),
		SodiumMg:      scalePtr(n.SodiumMg, factor),
		PotassiumMg:   scalePtr(n.PotassiumMg, factor),
		CholesterolMg: scalePtr(n.CholesterolMg, factor),
	}
}

// Add sums two payloads. An optional value is present in the result when it
// is present on either side.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:      n.Calories + o.Calories,
		ProteinG:      n.ProteinG + o.ProteinG,
		CarbsG:        n.CarbsG + o.CarbsG,
		FatG:          n.FatG + o.FatG,
		FiberG:        addPtr(n.FiberG, o.FiberG),
		SugarG:        addPtr(n.SugarG, o.SugarG),
		SaturatedFatG: addPtr(n.SaturatedFatG, o.SaturatedFatG),
		SodiumMg:      addPtr(n.SodiumMg, o.SodiumMg),
		PotassiumMg:   addPtr(n.PotassiumMg, o.PotassiumMg),
		CholesterolMg: addPtr(n.CholesterolMg, o.CholesterolMg),
	}
}

func scalePtr(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * factor
	return &out
}

func addPtr(a, b *float64) *float64 {
	if a == nil && b == nil {
		return nil
	}
	var out float64
	if a != nil {
		out += *a
	}
	if b != nil {
		out += *b
	}
	return &out
}

type unitKind string

const (
	unitKindMass    unitKind = "mass"
	unitKindVolume  unitKind = "volume"
	unitKindServing unitKind = "serving"
)

type unitDef struct {
	kind       unitKind
	toBaseUnit float64
}

var unitTable = map[string]unitDef{
	// mass (base = g)
	"mg":  {kind: unitKindMass, toBaseUnit: 0.001},
	"g":   {kind: unitKindMass, toBaseUnit: 1},
	"kg":  {kind: unitKindMass, toBaseUnit: 1000},
	"oz":  {kind: unitKindMass, toBaseUnit: 28.3495},
	"lb":  {kind: unitKindMass, toBaseUnit: 453.59237},
	"lbs": {kind: unitKindMass, toBaseUnit: 453.59237},

	// volume (base = ml)
	"ml":    {kind: unitKindVolume, toBaseUnit: 1},
	"l":     {kind: unitKindVolume, toBaseUnit: 1000},
	"tsp":   {kind: unitKindVolume, toBaseUnit: 4.92892159375},
	"tbsp":  {kind: unitKindVolume, toBaseUnit: 14.78676478125},
	"cup":   {kind: unitKindVolume, toBaseUnit: 236.5882365},
	"fl-oz": {kind: unitKindVolume, toBaseUnit: 29.5735295625},

	"serving":  {kind: unitKindServing, toBaseUnit: 1},
	"servings": {kind: unitKindServing, toBaseUnit: 1},
}

// IsVolumeUnit reports whether unit measures volume.
func IsVolumeUnit(unit string) bool {
	def, ok := resolveUnit(unit)
	return ok && def.kind == unitKindVolume
}

// KnownUnit reports whether unit is in the conversion table.
func KnownUnit(unit string) bool {
	_, ok := resolveUnit(unit)
	return ok
}

// ConvertAmount converts value between two units of the same dimension.
func ConvertAmount(value float64, fromUnit, toUnit string) (float64, error) {
	from, ok := resolveUnit(fromUnit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, fromUnit)
	}
	to, ok := resolveUnit(toUnit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, toUnit)
	}
	if from.kind != to.kind {
		return 0, fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatibleUnits, fromUnit, from.kind, toUnit, to.kind)
	}
	return value * from.toBaseUnit / to.toBaseUnit, nil
}

// ScaleNutrients turns a per-reference-serving payload into the payload for
// amount/unit: unit conversion first, then scaled = base × (amount / refAmount).
func ScaleNutrients(base Nutrients, refAmount float64, refUnit string, amount float64, unit string) (Nutrients, error) {
	if refAmount <= 0 {
		return Nutrients{}, ErrInvalidReference
	}
	if amount <= 0 {
		return Nutrients{}, ErrInvalidAmount
	}
	converted, err := ConvertAmount(amount, unit, refUnit)
	if err != nil {
		return Nutrients{}, err
	}
	return base.Scale(converted / refAmount), nil
}

func resolveUnit(unit string) (unitDef, bool) {
	def, ok := unitTable[strings.ToLower(strings.TrimSpace(unit))]
	return def, ok
}
