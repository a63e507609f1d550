// Package stoich derives FDS lumped-species stoichiometry from combustion yields
// and renders the resulting SPEC/REAC records.
package stoich

// Molar masses of the known species, g/mol.
const (
	WO2   = 32.0
	WCO2  = 44.0
	WCO   = 28.0
	WH2O  = 18.0
	WSoot = 12.0
	WHCl  = 36.5
	WN2   = 28.0
)

const (
	// AirN2Ratio is the N2:O2 molar ratio of background air (AIR = O2 + 3.7619 N2).
	AirN2Ratio = 3.7619

	// SootNormalization converts a smoke yield in Np·m²/kg into a mass yield.
	SootNormalization = 9500.0

	// HClThreshold is the largest HCl yield still treated as absent.
	HClThreshold = 1e-9

	// DefaultFuelID names the fuel species when none was imported.
	DefaultFuelID = "Fuel"
)

// Species identifiers used in SPEC and REAC records.
const (
	Oxygen           = "OXYGEN"
	Nitrogen         = "NITROGEN"
	CarbonDioxide    = "CARBON DIOXIDE"
	CarbonMonoxide   = "CARBON MONOXIDE"
	HydrogenChloride = "HYDROGEN CHLORIDE"
	WaterVapor       = "WATER VAPOR"
	Soot             = "SOOT"
	Air              = "AIR"
	Products         = "PRODUCTS"
)

// LumpedSpecies lists the primitive species in the order their SPEC records are written.
var LumpedSpecies = []string{
	Oxygen,
	Nitrogen,
	CarbonDioxide,
	CarbonMonoxide,
	HydrogenChloride,
	WaterVapor,
	Soot,
}

// MolarMass returns the molar mass of a known product or reactant species.
func MolarMass(id string) (float64, bool) {
	switch id {
	case Oxygen:
		return WO2, true
	case Nitrogen:
		return WN2, true
	case CarbonDioxide:
		return WCO2, true
	case CarbonMonoxide:
		return WCO, true
	case HydrogenChloride:
		return WHCl, true
	case WaterVapor:
		return WH2O, true
	case Soot:
		return WSoot, true
	}
	return 0, false
}

// KnownID reports whether id belongs to the fixed identifier vocabulary
// (lumped species plus AIR and PRODUCTS).
func KnownID(id string) bool {
	if id == Air || id == Products {
		return true
	}
	_, ok := MolarMass(id)
	return ok
}
