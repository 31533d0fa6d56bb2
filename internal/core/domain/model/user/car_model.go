package user

import (
	"fmt"

	"truckbot/internal/pkg/errs"
)

// CarModel is a catalogue code of the vehicle a driver operates.
// The empty value means "not specified".
type CarModel string

const (
	Labo   CarModel = "labo"
	Porter CarModel = "porter"
	Damas  CarModel = "damas"
	Gazel  CarModel = "gazel"
	Other  CarModel = "other"
)

// CarModels lists the catalogue in display order.
func CarModels() []CarModel {
	return []CarModel{Labo, Porter, Damas, Gazel, Other}
}

// Label returns the human readable name.
func (m CarModel) Label() string {
	switch m {
	case Labo:
		return "Labo"
	case Porter:
		return "Porter"
	case Damas:
		return "Damas"
	case Gazel:
		return "Gazel"
	case Other:
		return "Other"
	default:
		return ""
	}
}

// ParseCarModel accepts catalogue codes; the empty string clears the model.
func ParseCarModel(code string) (CarModel, error) {
	if code == "" {
		return "", nil
	}
	m := CarModel(code)
	if m.Label() == "" {
		return "", errs.NewValueIsInvalidErrorWithCause("car model", fmt.Errorf("%q is not in the catalogue", code))
	}
	return m, nil
}
