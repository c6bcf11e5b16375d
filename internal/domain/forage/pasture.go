package forage

// PastureType enumera los forrajes soportados.
type PastureType string

const (
	PastureMarandu    PastureType = "brachiaria_marandu"
	PastureDecumbens  PastureType = "brachiaria_decumbens"
	PasturePiata      PastureType = "brachiaria_piata"
	PastureHumidicola PastureType = "brachiaria_humidicola"
	PastureMombaca    PastureType = "panicum_mombaca"
	PastureTanzania   PastureType = "panicum_tanzania"
	PastureTifton85   PastureType = "cynodon_tifton85"
	PastureAndropogon PastureType = "andropogon"
	PastureNative     PastureType = "native"
)

// HeightRange son las alturas de manejo recomendadas (cm).
type HeightRange struct {
	EntryCm float64 `json:"entry_cm"`
	ExitCm  float64 `json:"exit_cm"`
}

var pastureDefaults = map[PastureType]HeightRange{
	PastureMarandu:    {EntryCm: 25, ExitCm: 15},
	PastureDecumbens:  {EntryCm: 20, ExitCm: 10},
	PasturePiata:      {EntryCm: 35, ExitCm: 15},
	PastureHumidicola: {EntryCm: 20, ExitCm: 10},
	PastureMombaca:    {EntryCm: 90, ExitCm: 40},
	PastureTanzania:   {EntryCm: 70, ExitCm: 30},
	PastureTifton85:   {EntryCm: 25, ExitCm: 10},
	PastureAndropogon: {EntryCm: 50, ExitCm: 25},
	PastureNative:     {EntryCm: 30, ExitCm: 15},
}

// pastureOrder fija el orden de PastureTypes().
var pastureOrder = []PastureType{
	PastureMarandu,
	PastureDecumbens,
	PasturePiata,
	PastureHumidicola,
	PastureMombaca,
	PastureTanzania,
	PastureTifton85,
	PastureAndropogon,
	PastureNative,
}

func (t PastureType) Valid() bool {
	_, ok := pastureDefaults[t]
	return ok
}

// DefaultHeights devuelve el rango recomendado; ok=false si el tipo no existe.
func (t PastureType) DefaultHeights() (HeightRange, bool) {
	h, ok := pastureDefaults[t]
	return h, ok
}

type PastureTypeInfo struct {
	Type    PastureType `json:"type"`
	Heights HeightRange `json:"heights"`
}

func PastureTypes() []PastureTypeInfo {
	out := make([]PastureTypeInfo, 0, len(pastureOrder))
	for _, t := range pastureOrder {
		out = append(out, PastureTypeInfo{Type: t, Heights: pastureDefaults[t]})
	}
	return out
}
