package forage

import "math"

const (
	DefaultDMYieldPerHaPerCm  = 50.0 // kg MS / ha / cm de rebaje
	DefaultDailyIntakePerUAKg = 12.0 // kg MS / UA / día
	DefaultGrazingEfficiency  = 0.5
	DryMatterDecimals         = 0
	AnimalUnitsPerDayDecimals = 1
)

// Params son las constantes agronómicas. Se cargan y validan en
// config.GrazingConfig; aquí se asumen positivas.
type Params struct {
	DMYieldPerHaPerCm          float64
	DailyIntakePerAnimalUnitKg float64
}

func DefaultParams() Params {
	return Params{
		DMYieldPerHaPerCm:          DefaultDMYieldPerHaPerCm,
		DailyIntakePerAnimalUnitKg: DefaultDailyIntakePerUAKg,
	}
}

type Input struct {
	AreaHectares      float64
	EntryHeightCm     float64
	ExitHeightCm      float64
	GrazingEfficiency float64
}

// UnavailableReason explica por qué no hay presupuesto forrajero.
type UnavailableReason string

const (
	ReasonNone              UnavailableReason = ""
	ReasonNoHeightDrop      UnavailableReason = "entry height must exceed exit height"
	ReasonNoArea            UnavailableReason = "paddock has no area"
	ReasonNoEfficiency      UnavailableReason = "grazing efficiency must be positive"
	ReasonInvalidParameters UnavailableReason = "forage parameters not configured"
)

// Capacity es el presupuesto forrajero. Available=false no es un error: es
// "capacidad no disponible" y los números quedan en cero sin significado.
type Capacity struct {
	Available         bool              `json:"available"`
	Reason            UnavailableReason `json:"reason,omitempty"`
	DryMatterKg       float64           `json:"dry_matter_kg"`
	AnimalUnitsPerDay float64           `json:"animal_units_per_day"`
}

func Unavailable(reason UnavailableReason) Capacity {
	return Capacity{Available: false, Reason: reason}
}

// Compute: MS = área × rebaje × rendimiento × eficiencia; UA/día = MS / consumo.
func (p Params) Compute(in Input) Capacity {
	if p.DMYieldPerHaPerCm <= 0 || p.DailyIntakePerAnimalUnitKg <= 0 {
		return Unavailable(ReasonInvalidParameters)
	}
	drop := in.EntryHeightCm - in.ExitHeightCm
	if drop <= 0 {
		return Unavailable(ReasonNoHeightDrop)
	}
	if in.AreaHectares <= 0 {
		return Unavailable(ReasonNoArea)
	}
	if in.GrazingEfficiency <= 0 {
		return Unavailable(ReasonNoEfficiency)
	}

	dm := in.AreaHectares * drop * p.DMYieldPerHaPerCm * in.GrazingEfficiency
	ua := dm / p.DailyIntakePerAnimalUnitKg

	return Capacity{
		Available:         true,
		DryMatterKg:       round(dm, DryMatterDecimals),
		AnimalUnitsPerDay: round(ua, AnimalUnitsPerDayDecimals),
	}
}

func round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
