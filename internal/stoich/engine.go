package stoich

// Term is one species entry of the PRODUCTS mixture.
type Term struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// Coefficients holds the molar stoichiometric coefficients for one unit of fuel.
type Coefficients struct {
	FuelID        string  `json:"fuel_id"`
	O2            float64 `json:"o2"`
	CO2           float64 `json:"co2"`
	CO            float64 `json:"co"`
	Soot          float64 `json:"soot"`
	HCl           float64 `json:"hcl"`
	H2O           float64 `json:"h2o"`
	N2            float64 `json:"n2"`
	MassReactants float64 `json:"mass_reactants"`
	Products      []Term  `json:"products"`
}

// HasHCl reports whether HYDROGEN CHLORIDE is part of the products.
func (c Coefficients) HasHCl() bool {
	for _, t := range c.Products {
		if t.ID == HydrogenChloride {
			return true
		}
	}
	return false
}

// ProductIDs returns the product species identifiers in record order.
func (c Coefficients) ProductIDs() []string {
	out := make([]string, len(c.Products))
	for i, t := range c.Products {
		out[i] = t.ID
	}
	return out
}

// ProductValues returns the product coefficients, index-aligned with ProductIDs.
func (c Coefficients) ProductValues() []float64 {
	out := make([]float64, len(c.Products))
	for i, t := range c.Products {
		out[i] = t.Value
	}
	return out
}

// Compute derives the coefficients from validated inputs. It never fails:
// adversarial yields may give a negative water coefficient, which is passed through.
func Compute(in Inputs, fuelID string) Coefficients {
	if fuelID == "" {
		fuelID = DefaultFuelID
	}
	m := in.MolarMass
	normSoot := in.SootYield / SootNormalization

	c := Coefficients{
		FuelID: fuelID,
		O2:     (m / WO2) * in.O2Consumption,
		CO2:    (m / WCO2) * in.CO2Yield,
		CO:     (m / WCO) * in.COYield,
		Soot:   (m / WSoot) * normSoot,
		HCl:    (m / WHCl) * in.HClYield,
	}
	yH2O := 1 + in.O2Consumption - in.CO2Yield - in.COYield - normSoot - in.HClYield
	c.H2O = (m / WH2O) * yH2O
	c.N2 = AirN2Ratio * c.O2
	c.MassReactants = MassReactants(c.O2)

	products := make([]Term, 0, 6)
	products = append(products,
		Term{ID: Soot, Value: c.Soot},
		Term{ID: CarbonDioxide, Value: c.CO2},
		Term{ID: CarbonMonoxide, Value: c.CO},
	)
	if in.HClYield > HClThreshold {
		products = append(products, Term{ID: HydrogenChloride, Value: c.HCl})
	}
	c.Products = append(products,
		Term{ID: WaterVapor, Value: c.H2O},
		Term{ID: Nitrogen, Value: c.N2},
	)
	return c
}

// airMassFactor is the mass of air per mole of O2 relative to W_O2.
const airMassFactor = 1 + AirN2Ratio*(WN2/WO2)

// MassReactants returns the REAC second NU coefficient for an O2 coefficient.
func MassReactants(vO2 float64) float64 {
	return -(1 + vO2*airMassFactor)
}

// O2FromMassReactants inverts MassReactants.
func O2FromMassReactants(massReactants float64) float64 {
	return -(massReactants + 1) / airMassFactor
}

// Build computes and renders the reaction block in one step.
func Build(in Inputs, fuelID string) string {
	c := Compute(in, fuelID)
	return Render(c, c.FuelID, in.HeatOfCombustion, in.MolarMass)
}
