package score

import (
	"fmt"
	"math"
)

// Gate thresholds. Hardiness tolerates a 5-degree gap before vetoing;
// the stress warnings fire when more than 60% of the members exceed
// the day counts.
const (
	hardinessSlack   = 5.0
	droughtDaysLimit = 100.0
	frostDaysLimit   = 50.0
	stressShare      = 0.6
)

type climateCheck struct {
	vetoes   []VetoReason
	zone     *Zone
	warnings []string
}

type envelopeDim struct {
	name  string
	slack float64
	lo    func(Traits) float64
	hi    func(Traits) float64
}

// checkClimate intersects the member envelopes per dimension. The
// overlap of a dimension is the lowest upper bound minus the highest
// lower bound over the members that supply it; an overlap below the
// dimension's slack vetoes the guild. Warnings are only collected for
// guilds that pass the gate.
func checkClimate(members []Member) climateCheck {
	dims := []envelopeDim{
		{
			name: DimTemperature,
			lo:   func(t Traits) float64 { return t.TempQ05 },
			hi:   func(t Traits) float64 { return t.TempQ95 },
		},
		{
			name:  DimHardiness,
			slack: hardinessSlack,
			lo:    func(t Traits) float64 { return t.HardinessQ05 },
			hi:    func(t Traits) float64 { return t.HardinessQ95 },
		},
		{
			name: DimPrecipitation,
			lo:   func(t Traits) float64 { return t.PrecipQ05 },
			hi:   func(t Traits) float64 { return t.PrecipQ95 },
		},
	}

	var cc climateCheck
	zone := &Zone{}
	known := 0

	for _, d := range dims {
		maxLo, minHi := math.Inf(-1), math.Inf(1)
		var loID, hiID string
		var nLo, nHi int
		for _, m := range members {
			if v := d.lo(m.Traits); !math.IsNaN(v) {
				nLo++
				if v > maxLo {
					maxLo, loID = v, m.Traits.ID
				}
			}
			if v := d.hi(m.Traits); !math.IsNaN(v) {
				nHi++
				if v < minHi {
					minHi, hiID = v, m.Traits.ID
				}
			}
		}
		if nLo == 0 || nHi == 0 {
			continue
		}
		known++

		overlap := minHi - maxLo
		if overlap < -d.slack {
			cc.vetoes = append(cc.vetoes, VetoReason{
				Dimension: d.name,
				Overlap:   overlap,
				HighID:    loID,
				High:      maxLo,
				LowID:     hiID,
				Low:       minHi,
			})
			continue
		}

		switch d.name {
		case DimTemperature:
			zone.TempMin, zone.TempMax = maxLo, minHi
		case DimHardiness:
			zone.HardinessMin, zone.HardinessMax = maxLo, minHi
		case DimPrecipitation:
			zone.PrecipMin, zone.PrecipMax = maxLo, minHi
		}
	}

	if len(cc.vetoes) > 0 {
		return cc
	}

	n := len(members)
	missing := 0
	for _, m := range members {
		if envelopeIncomplete(m.Traits) {
			missing++
		}
	}
	if missing > 0 {
		cc.warnings = append(cc.warnings, fmt.Sprintf(
			"climate envelope missing for %d of %d members", missing, n,
		))
	}
	if known == len(dims) && missing == 0 {
		cc.zone = zone
	}

	drought := 0
	frost := 0
	for _, m := range members {
		if m.Traits.DroughtDays > droughtDaysLimit {
			drought++
		}
		if m.Traits.FrostDays > frostDaysLimit {
			frost++
		}
	}
	if float64(drought)/float64(n) > stressShare {
		cc.warnings = append(cc.warnings, fmt.Sprintf(
			"%d%% of the guild is drought-sensitive",
			int(float64(drought)/float64(n)*100),
		))
	}
	if float64(frost)/float64(n) > stressShare {
		cc.warnings = append(cc.warnings, fmt.Sprintf(
			"%d%% of the guild is frost-sensitive",
			int(float64(frost)/float64(n)*100),
		))
	}
	return cc
}

func envelopeIncomplete(t Traits) bool {
	for _, v := range []float64{
		t.TempQ05, t.TempQ95,
		t.HardinessQ05, t.HardinessQ95,
		t.PrecipQ05, t.PrecipQ95,
	} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
