// Package analytics describes a merchant's clientele: age bands, mean age and
// the cities customers come from.
package analytics

import (
	"sort"
	"strings"

	"fidelite/internal/models"

	"github.com/shopspring/decimal"
)

// Band is an inclusive age range. Max < 0 means unbounded.
type Band struct {
	Label string
	Min   int
	Max   int
}

// Bands are the reported age groups. Ages below 18 are counted in the
// population but fall in no band.
var Bands = []Band{
	{Label: "18-25", Min: 18, Max: 25},
	{Label: "26-35", Min: 26, Max: 35},
	{Label: "36-50", Min: 36, Max: 50},
	{Label: "50+", Min: 51, Max: -1},
}

func (b Band) contains(age int) bool {
	return age >= b.Min && (b.Max < 0 || age <= b.Max)
}

type BandShare struct {
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

type CityShare struct {
	City    string          `json:"city"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// Distribution is the analytics result for a set of customer profiles.
type Distribution struct {
	Customers int             `json:"customers"`
	WithAge   int             `json:"with_age"`
	MeanAge   decimal.Decimal `json:"mean_age"`
	AgeBands  []BandShare     `json:"age_bands"`
	WithCity  int             `json:"with_city"`
	Cities    []CityShare     `json:"cities"`
}

// Profile is the slice of a customer analytics needs.
type Profile struct {
	Age  *int
	City string
}

func ProfilesOf(customers []models.Customer) []Profile {
	out := make([]Profile, len(customers))
	for i, c := range customers {
		out[i] = Profile{Age: c.Age, City: c.City}
	}
	return out
}

// Customers computes the distribution of profiles. Shares are percentages
// rounded to two places; band shares are over profiles with an age, city
// shares over profiles with a non-empty city.
func Customers(profiles []Profile) Distribution {
	dist := Distribution{
		Customers: len(profiles),
		MeanAge:   decimal.Zero,
		AgeBands:  make([]BandShare, len(Bands)),
		Cities:    []CityShare{},
	}
	for i, b := range Bands {
		dist.AgeBands[i] = BandShare{Label: b.Label, Percent: decimal.Zero}
	}

	var ageSum int64
	type cityCount struct {
		display string
		count   int
	}
	cities := make(map[string]*cityCount)

	for _, p := range profiles {
		if p.Age != nil {
			age := *p.Age
			dist.WithAge++
			ageSum += int64(age)
			for i, b := range Bands {
				if b.contains(age) {
					dist.AgeBands[i].Count++
					break
				}
			}
		}

		city := strings.TrimSpace(p.City)
		if city == "" {
			continue
		}
		dist.WithCity++
		key := strings.ToLower(city)
		if cc, ok := cities[key]; ok {
			cc.count++
		} else {
			cities[key] = &cityCount{display: city, count: 1}
		}
	}

	if dist.WithAge > 0 {
		dist.MeanAge = decimal.NewFromInt(ageSum).Div(decimal.NewFromInt(int64(dist.WithAge))).Round(2)
		for i := range dist.AgeBands {
			dist.AgeBands[i].Percent = percent(dist.AgeBands[i].Count, dist.WithAge)
		}
	}

	for _, cc := range cities {
		dist.Cities = append(dist.Cities, CityShare{
			City:    cc.display,
			Count:   cc.count,
			Percent: percent(cc.count, dist.WithCity),
		})
	}
	sort.Slice(dist.Cities, func(i, j int) bool {
		if dist.Cities[i].Count != dist.Cities[j].Count {
			return dist.Cities[i].Count > dist.Cities[j].Count
		}
		return strings.ToLower(dist.Cities[i].City) < strings.ToLower(dist.Cities[j].City)
	})

	return dist
}

func percent(part, whole int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2)
}
