package catalog

import (
	"errors"
	"math/rand"
	"sort"
)

var ErrNotFound = errors.New("destination or class not found")

const (
	ClassEconomy = "economy"
	ClassLuxury  = "luxury"
	ClassVIP     = "VIP"
)

// Classes in ascending price order, the same set for every destination.
var Classes = []string{ClassEconomy, ClassLuxury, ClassVIP}

type Destination struct {
	Name           string
	Prices         map[string]int64
	Accommodations []string
}

var destinations = map[string]Destination{
	"International Space Station": {
		Name: "International Space Station",
		Prices: map[string]int64{
			ClassEconomy: 500_000,
			ClassLuxury:  1_200_000,
			ClassVIP:     2_500_000,
		},
		Accommodations: []string{"Orbital Pod", "Cupola View Suite"},
	},
	"Lunar Hotel": {
		Name: "Lunar Hotel",
		Prices: map[string]int64{
			ClassEconomy: 1_500_000,
			ClassLuxury:  3_000_000,
			ClassVIP:     5_000_000,
		},
		Accommodations: []string{"Crater Edge Room", "Earthrise Suite"},
	},
	"Mars Colony": {
		Name: "Mars Colony",
		Prices: map[string]int64{
			ClassEconomy: 5_000_000,
			ClassLuxury:  10_000_000,
			ClassVIP:     20_000_000,
		},
		Accommodations: []string{"Dome Habitat", "Olympus Base Suite"},
	},
}

// Catalog exposes the fixed destination tables. The random source is injected
// so accommodation recommendations are deterministic under test.
type Catalog struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Catalog {
	return &Catalog{rng: rng}
}

func (c *Catalog) Destinations() []Destination {
	out := make([]Destination, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Catalog) Price(destination, class string) (int64, error) {
	d, ok := destinations[destination]
	if !ok {
		return 0, ErrNotFound
	}
	price, ok := d.Prices[class]
	if !ok {
		return 0, ErrNotFound
	}
	return price, nil
}

func (c *Catalog) AccommodationOptions(destination string) ([]string, error) {
	d, ok := destinations[destination]
	if !ok {
		return nil, ErrNotFound
	}
	options := make([]string, len(d.Accommodations))
	copy(options, d.Accommodations)
	return options, nil
}

func (c *Catalog) RecommendAccommodation(destination string) (string, error) {
	options, err := c.AccommodationOptions(destination)
	if err != nil {
		return "", err
	}
	return options[c.rng.Intn(len(options))], nil
}
