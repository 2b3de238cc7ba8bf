package chem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// describeTraceVolume is one cubic millimetre. Matter below it is visible
// only as a trace.
const describeTraceVolume = 1e-9

// appearanceKey groups matter an observer cannot tell apart.
type appearanceKey struct {
	color string
	phase string
}

type appearanceGroup struct {
	key    appearanceKey
	mass   float64
	volume float64
	heat   float64 // mass-weighted temperature accumulator
}

// Describe renders contents the way an observer would report them: volumes
// of colored phases rather than chemical composition. Substances sharing a
// color and phase are indistinguishable and are reported as one.
func Describe(states []MatterState) string {
	if len(states) == 0 {
		return "an empty beaker"
	}

	groups := make(map[appearanceKey]*appearanceGroup)
	for _, st := range states {
		key := appearanceKey{color: st.Color, phase: st.Phase}
		g, ok := groups[key]
		if !ok {
			g = &appearanceGroup{key: key}
			groups[key] = g
		}
		g.mass += st.Mass
		g.volume += st.Volume
		g.heat += st.Mass * st.Temperature
	}

	ordered := make([]*appearanceGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].volume != ordered[j].volume {
			return ordered[i].volume > ordered[j].volume
		}
		return appearanceName(ordered[i].key) < appearanceName(ordered[j].key)
	})

	var sb strings.Builder
	sb.WriteString("a beaker containing:\n")
	totalMass := 0.0
	for _, g := range ordered {
		totalMass += g.mass
		if g.volume < describeTraceVolume {
			fmt.Fprintf(&sb, "  - a trace of %s\n", appearanceName(g.key))
			continue
		}
		line := fmt.Sprintf("  - %s of %s (%s)",
			humanize.SIWithDigits(g.volume*1000, 3, "L"),
			appearanceName(g.key),
			humanize.SIWithDigits(g.mass*1000, 3, "g"))
		if g.mass > 0 {
			line += fmt.Sprintf(" at %.1f°C", g.heat/g.mass)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "total mass: %s", humanize.SIWithDigits(totalMass*1000, 3, "g"))
	return sb.String()
}

// appearanceName turns a color and phase into the phrase an observer would
// use, e.g. "black solid" or "blue solution".
func appearanceName(key appearanceKey) string {
	phase := key.phase
	if phase == "aqueous" {
		phase = "solution"
	}
	return key.color + " " + phase
}
