package musr

import "strings"

// MuonLifetime is the muon life time in µs (PRL 99, 032001 (2007)).
const MuonLifetime = 2.197019

// GammaBarMuon is the muon gyromagnetic ratio γ/2π in MHz/G.
const GammaBarMuon = 1.355342e-2

// FuncOffset is the legacy parameter-number offset marking a function
// reference. See [DecodeRef].
const FuncOffset = 20000

// Facility identifies the accelerator a run was measured at.
type Facility int

const (
	FacilityUnknown Facility = iota
	FacilityPSI
	FacilityTRIUMF
	FacilityRAL
)

// BeamPeriod returns the accelerator period in µs. Pulsed or unknown
// facilities report 0, which disables background-interval snapping.
func (f Facility) BeamPeriod() float64 {
	switch f {
	case FacilityPSI:
		return 0.01975
	case FacilityTRIUMF:
		return 0.04337
	default:
		return 0
	}
}

func (f Facility) String() string {
	switch f {
	case FacilityPSI:
		return "psi"
	case FacilityTRIUMF:
		return "triumf"
	case FacilityRAL:
		return "ral"
	default:
		return "unknown"
	}
}

// ParseFacility maps an institute name onto a Facility. Unknown names map
// to FacilityUnknown.
func ParseFacility(name string) Facility {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "psi":
		return FacilityPSI
	case "triumf":
		return FacilityTRIUMF
	case "ral", "isis":
		return FacilityRAL
	default:
		return FacilityUnknown
	}
}
