package musr

import (
	"fmt"
	"math"
	"strings"
)

// RRFUnit is the physical unit a rotating-reference-frame frequency is
// given in.
type RRFUnit int

const (
	UnitMHz   RRFUnit = iota // frequency in MHz
	UnitMcs                  // angular frequency in Mc/s (rad/µs)
	UnitGauss                // field in G
	UnitTesla                // field in T
)

func (u RRFUnit) String() string {
	switch u {
	case UnitMHz:
		return "MHz"
	case UnitMcs:
		return "Mc/s"
	case UnitGauss:
		return "G"
	case UnitTesla:
		return "T"
	default:
		return fmt.Sprintf("RRFUnit(%d)", int(u))
	}
}

// ParseRRFUnit parses the unit tags used in run descriptions.
func ParseRRFUnit(s string) (RRFUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mhz":
		return UnitMHz, nil
	case "mc", "mc/s":
		return UnitMcs, nil
	case "g", "gauss":
		return UnitGauss, nil
	case "t", "tesla":
		return UnitTesla, nil
	default:
		return 0, fmt.Errorf("unknown rrf unit %q", s)
	}
}

// AngularFrequency converts value given in unit into an angular frequency
// in rad/µs.
func AngularFrequency(value float64, unit RRFUnit) float64 {
	switch unit {
	case UnitMHz:
		return 2 * math.Pi * value
	case UnitGauss:
		return 2 * math.Pi * GammaBarMuon * value
	case UnitTesla:
		return 2 * math.Pi * GammaBarMuon * 1e4 * value
	default:
		return value
	}
}

// FromAngularFrequency is the inverse of [AngularFrequency].
func FromAngularFrequency(omega float64, unit RRFUnit) float64 {
	switch unit {
	case UnitMHz:
		return omega / (2 * math.Pi)
	case UnitGauss:
		return omega / (2 * math.Pi * GammaBarMuon)
	case UnitTesla:
		return omega / (2 * math.Pi * GammaBarMuon * 1e4)
	default:
		return omega
	}
}
