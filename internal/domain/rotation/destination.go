package rotation

import "fmt"

type destinationKind int

const (
	kindUnset destinationKind = iota
	kindPaddock
	kindLoose
)

// Destination es un potrero concreto o "pasto suelto". El valor cero no es
// un destino válido.
type Destination struct {
	kind      destinationKind
	paddockID string
}

func ToPaddock(id string) Destination {
	return Destination{kind: kindPaddock, paddockID: id}
}

func LoosePasture() Destination {
	return Destination{kind: kindLoose}
}

func (d Destination) IsLoose() bool { return d.kind == kindLoose }

// PaddockID devuelve el id y true solo si el destino es un potrero.
func (d Destination) PaddockID() (string, bool) {
	if d.kind != kindPaddock {
		return "", false
	}
	return d.paddockID, true
}

func (d Destination) valid() bool {
	switch d.kind {
	case kindLoose:
		return true
	case kindPaddock:
		return d.paddockID != ""
	default:
		return false
	}
}

func (d Destination) String() string {
	switch d.kind {
	case kindLoose:
		return "loose pasture"
	case kindPaddock:
		return fmt.Sprintf("paddock %s", d.paddockID)
	default:
		return "unset"
	}
}
