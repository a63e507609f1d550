package stoich

import (
	"errors"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fdsreac/internal/apperr"
)

// Input field names, shared by the CLI, HTTP and MCP surfaces.
const (
	FieldHeatRelease   = "heat_release"
	FieldSootYield     = "soot_yield"
	FieldO2Consumption = "o2_consumption"
	FieldCO2Yield      = "co2_yield"
	FieldCOYield       = "co_yield"
	FieldHClYield      = "hcl_yield"
	FieldMolarMass     = "molar_mass"
)

// FieldOrder is the order in which inputs are checked and reported.
var FieldOrder = []string{
	FieldHeatRelease,
	FieldSootYield,
	FieldO2Consumption,
	FieldCO2Yield,
	FieldCOYield,
	FieldHClYield,
	FieldMolarMass,
}

// Inputs are the fuel properties and species yields of one combustion reaction.
type Inputs struct {
	HeatOfCombustion float64 `json:"heat_release"`   // kJ/kg
	SootYield        float64 `json:"soot_yield"`     // Np·m²/kg
	O2Consumption    float64 `json:"o2_consumption"` // kg/kg
	CO2Yield         float64 `json:"co2_yield"`      // kg/kg
	COYield          float64 `json:"co_yield"`       // kg/kg
	HClYield         float64 `json:"hcl_yield"`      // kg/kg
	MolarMass        float64 `json:"molar_mass"`     // g/mol
}

// Validate checks that every field is finite, yields are non-negative and the
// molar mass is strictly positive. The first failing field in FieldOrder is reported.
func (in *Inputs) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.HeatOfCombustion, finite, validation.Min(0.0)),
		validation.Field(&in.SootYield, finite, validation.Min(0.0)),
		validation.Field(&in.O2Consumption, finite, validation.Min(0.0)),
		validation.Field(&in.CO2Yield, finite, validation.Min(0.0)),
		validation.Field(&in.COYield, finite, validation.Min(0.0)),
		validation.Field(&in.HClYield, finite, validation.Min(0.0)),
		validation.Field(&in.MolarMass, finite,
			validation.Min(0.0).Exclusive().Error("must be positive")),
	)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	for _, name := range FieldOrder {
		if fe, ok := errs[name]; ok {
			return &apperr.ValidationError{Field: name, Reason: fe.Error()}
		}
	}
	return err
}

var finite = validation.By(func(value interface{}) error {
	v, _ := value.(float64)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("must be a finite number")
	}
	return nil
})

// ParseInputs converts raw text fields into validated Inputs. Values may use a
// decimal comma. An empty or missing HCl yield defaults to zero; every other
// field is required.
func ParseInputs(raw map[string]string) (Inputs, error) {
	values := make(map[string]float64, len(FieldOrder))
	for _, name := range FieldOrder {
		text := strings.ReplaceAll(strings.TrimSpace(raw[name]), ",", ".")
		if text == "" {
			if name == FieldHClYield {
				values[name] = 0
				continue
			}
			return Inputs{}, &apperr.ValidationError{Field: name, Reason: "is required"}
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Inputs{}, &apperr.ValidationError{Field: name, Reason: "must be a valid number"}
		}
		values[name] = v
	}

	in := Inputs{
		HeatOfCombustion: values[FieldHeatRelease],
		SootYield:        values[FieldSootYield],
		O2Consumption:    values[FieldO2Consumption],
		CO2Yield:         values[FieldCO2Yield],
		COYield:          values[FieldCOYield],
		HClYield:         values[FieldHClYield],
		MolarMass:        values[FieldMolarMass],
	}
	if err := in.Validate(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// Fields returns the inputs keyed by field name.
func (in Inputs) Fields() map[string]float64 {
	return map[string]float64{
		FieldHeatRelease:   in.HeatOfCombustion,
		FieldSootYield:     in.SootYield,
		FieldO2Consumption: in.O2Consumption,
		FieldCO2Yield:      in.CO2Yield,
		FieldCOYield:       in.COYield,
		FieldHClYield:      in.HClYield,
		FieldMolarMass:     in.MolarMass,
	}
}
