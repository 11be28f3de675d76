package selection

import (
	"fmt"

	"github.com/llm-d/parking-lottery/pkg/core"
	"github.com/llm-d/parking-lottery/pkg/random"
)

// ApartmentSelector picks the next apartment to draw.
type ApartmentSelector interface {
	// SelectRandomApartment returns a uniformly chosen active, undrawn
	// apartment, or false if there is none.
	SelectRandomApartment(apartments []core.Apartment) (core.Apartment, bool)
}

// Service is the default ApartmentSelector. It shuffles the whole eligible
// set and takes the first element, so every call consumes randomness.
type Service struct {
	source random.Source
}

// NewService creates a Service drawing from source.
func NewService(source random.Source) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	return &Service{source: source}, nil
}

// SelectRandomApartment implements ApartmentSelector.
func (s *Service) SelectRandomApartment(apartments []core.Apartment) (core.Apartment, bool) {
	eligible := Eligible(apartments)
	if len(eligible) == 0 {
		return core.Apartment{}, false
	}
	return random.Shuffle(s.source, eligible)[0], true
}

// Eligible returns the active, undrawn apartments in roster order.
func Eligible(apartments []core.Apartment) []core.Apartment {
	out := []core.Apartment{}
	for _, a := range apartments {
		if a.Active && !a.Drawn {
			out = append(out, a)
		}
	}
	return out
}

// Progress counts active apartments and how many of them are drawn.
func Progress(apartments []core.Apartment) (active, drawn int) {
	for _, a := range apartments {
		if !a.Active {
			continue
		}
		active++
		if a.Drawn {
			drawn++
		}
	}
	return active, drawn
}

// MarkAsDrawn flags the apartment as drawn. Marking twice is a caller error
// and is not checked here.
func MarkAsDrawn(apartment *core.Apartment) {
	apartment.Drawn = true
}
