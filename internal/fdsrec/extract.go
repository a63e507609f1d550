package fdsrec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/starford/fdsreac/internal/apperr"
	"github.com/starford/fdsreac/internal/stoich"
)

// Warning codes reported by ExtractInputs.
const (
	CodeFieldMissing      = "field_missing"
	CodeProductsMissing   = "products_missing"
	CodeProductsMismatch  = "products_mismatch"
	CodeProductsMalformed = "products_malformed"
	CodeUnknownSpecies    = "unknown_species"
	CodeO2FromNu          = "o2_from_nu"
)

// Warning is a recoverable import problem.
type Warning struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Partial holds whatever inputs could be recovered from a document. Nil means absent.
type Partial struct {
	HeatOfCombustion *float64
	SootYield        *float64
	O2Consumption    *float64
	CO2Yield         *float64
	COYield          *float64
	HClYield         *float64
	MolarMass        *float64
}

func (p *Partial) field(name string) **float64 {
	switch name {
	case stoich.FieldHeatRelease:
		return &p.HeatOfCombustion
	case stoich.FieldSootYield:
		return &p.SootYield
	case stoich.FieldO2Consumption:
		return &p.O2Consumption
	case stoich.FieldCO2Yield:
		return &p.CO2Yield
	case stoich.FieldCOYield:
		return &p.COYield
	case stoich.FieldHClYield:
		return &p.HClYield
	case stoich.FieldMolarMass:
		return &p.MolarMass
	}
	return nil
}

func (p *Partial) set(name string, v float64) {
	*p.field(name) = &v
}

// Fields returns the recovered values keyed by input field name.
func (p Partial) Fields() map[string]float64 {
	out := make(map[string]float64, len(stoich.FieldOrder))
	for _, name := range stoich.FieldOrder {
		if v := *p.field(name); v != nil {
			out[name] = *v
		}
	}
	return out
}

// Missing lists the fields that could not be recovered, in field order.
func (p Partial) Missing() []string {
	var out []string
	for _, name := range stoich.FieldOrder {
		if *p.field(name) == nil {
			out = append(out, name)
		}
	}
	return out
}

// Inputs returns the full input set when every field was recovered.
func (p Partial) Inputs() (stoich.Inputs, bool) {
	if len(p.Missing()) > 0 {
		return stoich.Inputs{}, false
	}
	return stoich.Inputs{
		HeatOfCombustion: *p.HeatOfCombustion,
		SootYield:        *p.SootYield,
		O2Consumption:    *p.O2Consumption,
		CO2Yield:         *p.CO2Yield,
		COYield:          *p.COYield,
		HClYield:         *p.HClYield,
		MolarMass:        *p.MolarMass,
	}, true
}

// ExtractFuelID returns the fuel named by the REAC record, or the default fuel id.
func ExtractFuelID(doc string) string {
	m, ok := reacFuelRule.Find(doc)
	if !ok || strings.TrimSpace(m.Groups[0]) == "" {
		return stoich.DefaultFuelID
	}
	return m.Groups[0]
}

// ExtractInputs recovers the engine inputs from a document by inverting the
// coefficient formulas. A missing fuel molar mass is fatal and yields no
// partial result; every other gap is reported as a warning.
func ExtractInputs(doc, fuelID string) (Partial, []Warning, error) {
	if fuelID == "" {
		fuelID = stoich.DefaultFuelID
	}
	var (
		p        Partial
		warnings []Warning
	)

	mw, ok := fuelMolarMassRule(fuelID).Find(doc)
	if !ok {
		return Partial{}, nil, &apperr.ParseError{
			Field:  stoich.FieldMolarMass,
			Reason: fmt.Sprintf("no MW found for fuel %q", fuelID),
		}
	}
	m, err := strconv.ParseFloat(mw.Groups[0], 64)
	if err != nil || m <= 0 {
		return Partial{}, nil, &apperr.ParseError{
			Field:  stoich.FieldMolarMass,
			Reason: fmt.Sprintf("invalid MW %q for fuel %q", mw.Groups[0], fuelID),
		}
	}
	p.set(stoich.FieldMolarMass, m)

	if h, ok := heatRule.Find(doc); ok {
		if v, err := strconv.ParseFloat(h.Groups[0], 64); err == nil {
			p.set(stoich.FieldHeatRelease, v)
		}
	}

	products, pw := extractProducts(doc)
	warnings = append(warnings, pw...)
	if products != nil {
		if v, ok := products[stoich.Soot]; ok {
			p.set(stoich.FieldSootYield, v*stoich.WSoot/m*stoich.SootNormalization)
		}
		if v, ok := products[stoich.CarbonDioxide]; ok {
			p.set(stoich.FieldCO2Yield, v*stoich.WCO2/m)
		}
		if v, ok := products[stoich.CarbonMonoxide]; ok {
			p.set(stoich.FieldCOYield, v*stoich.WCO/m)
		}
		if v, ok := products[stoich.HydrogenChloride]; ok {
			p.set(stoich.FieldHClYield, v*stoich.WHCl/m)
		}
		if v, ok := products[stoich.Nitrogen]; ok {
			vO2 := v / stoich.AirN2Ratio
			p.set(stoich.FieldO2Consumption, vO2*stoich.WO2/m)
		}
	}
	if p.HClYield == nil {
		p.set(stoich.FieldHClYield, 0)
	}

	if p.O2Consumption == nil {
		if nu, ok := reacNuRule.Find(doc); ok {
			if mass, err := strconv.ParseFloat(nu.Groups[0], 64); err == nil {
				vO2 := stoich.O2FromMassReactants(mass)
				p.set(stoich.FieldO2Consumption, vO2*stoich.WO2/m)
				warnings = append(warnings, Warning{
					Code:    CodeO2FromNu,
					Field:   stoich.FieldO2Consumption,
					Message: "oxygen consumption recovered from REAC NU; precision limited to 4 decimals and assumes AIR = O2 + 3.7619 N2",
				})
			}
		}
	}

	for _, name := range p.Missing() {
		warnings = append(warnings, Warning{
			Code:    CodeFieldMissing,
			Field:   name,
			Message: fmt.Sprintf("%s not found in document", name),
		})
	}
	return p, warnings, nil
}

// extractProducts reads the PRODUCTS record into species → coefficient.
// A nil map means nothing usable was found.
func extractProducts(doc string) (map[string]float64, []Warning) {
	m, ok := productsRule.Find(doc)
	if !ok {
		return nil, []Warning{{Code: CodeProductsMissing, Message: "PRODUCTS record not found"}}
	}

	idCount, _ := strconv.Atoi(m.Groups[0])
	fracCount, _ := strconv.Atoi(m.Groups[2])
	ids := splitList(m.Groups[1])
	for i, id := range ids {
		ids[i] = strings.ToUpper(strings.Trim(id, `'" `+"\t\r\n"))
	}
	rawFracs := splitList(m.Groups[3])
	fracs := make([]float64, 0, len(rawFracs))
	for _, s := range rawFracs {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, []Warning{{
				Code:    CodeProductsMalformed,
				Message: fmt.Sprintf("PRODUCTS volume fraction %q is not a number", strings.TrimSpace(s)),
			}}
		}
		fracs = append(fracs, v)
	}

	if idCount != fracCount || len(ids) != idCount || len(fracs) != idCount || (idCount != 5 && idCount != 6) {
		return nil, []Warning{{
			Code: CodeProductsMismatch,
			Message: fmt.Sprintf("PRODUCTS declares %d ids and %d fractions but lists %d ids and %d fractions; expected 5 or 6",
				idCount, fracCount, len(ids), len(fracs)),
		}}
	}

	var warnings []Warning
	out := make(map[string]float64, len(ids))
	for i, id := range ids {
		if _, known := stoich.MolarMass(id); !known {
			warnings = append(warnings, unknownSpecies(id))
			continue
		}
		out[id] = fracs[i]
	}
	return out, warnings
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	// Namelist parameters may be comma separated, leaving one trailing empty element.
	if last := len(parts) - 1; last > 0 && strings.TrimSpace(parts[last]) == "" {
		parts = parts[:last]
	}
	return parts
}

// unknownSpecies builds a warning, suggesting the closest known species id.
func unknownSpecies(id string) Warning {
	best, bestDist := "", -1
	for _, cand := range stoich.LumpedSpecies {
		d := levenshtein.ComputeDistance(id, cand)
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	msg := fmt.Sprintf("PRODUCTS species %q is not recognised", id)
	if bestDist >= 0 && bestDist <= suggestionLimit(len(best)) {
		msg += fmt.Sprintf("; did you mean %q?", best)
	}
	return Warning{Code: CodeUnknownSpecies, Message: msg}
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
