package stoich

import (
	"fmt"
	"strconv"
	"strings"
)

// Render writes the SPEC and REAC records for c. Every record ends with "/\n".
func Render(c Coefficients, fuelID string, heatRelease, molarMass float64) string {
	if fuelID == "" {
		fuelID = DefaultFuelID
	}
	var b strings.Builder

	for _, id := range LumpedSpecies {
		fmt.Fprintf(&b, "&SPEC ID=%s LUMPED_COMPONENT_ONLY=.TRUE./\n", quote(id))
	}
	fmt.Fprintf(&b, "&SPEC ID=%s MW=%s/\n", quote(fuelID), FormatNative(molarMass))
	fmt.Fprintf(&b, "&SPEC ID=%s BACKGROUND=.TRUE. SPEC_ID(1:2)=%s VOLUME_FRACTION(1:2)=1,%s/\n",
		quote(Air), quoteList([]string{Oxygen, Nitrogen}), FormatNative(AirN2Ratio))

	n := strconv.Itoa(len(c.Products))
	fmt.Fprintf(&b, "&SPEC ID=%s SPEC_ID(1:%s)=%s VOLUME_FRACTION(1:%s)=%s/\n",
		quote(Products), n, quoteList(c.ProductIDs()), n, fractionList(c.ProductValues()))

	fmt.Fprintf(&b, "&REAC FUEL=%s HEAT_OF_COMBUSTION=%s SPEC_ID_NU(1:3)=%s NU(1:3)=-1,%s,1 "+
		"REAC_ATOM_ERROR=1E5 REAC_MASS_ERROR=1E4 CHECK_ATOM_BALANCE=.FALSE./\n",
		quote(fuelID), FormatNative(heatRelease), quoteList([]string{fuelID, Air, Products}),
		FormatNu(c.MassReactants))

	return b.String()
}
