package stoich

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func referenceInputs() Inputs {
	return Inputs{
		HeatOfCombustion: 31700,
		SootYield:        0.1,
		O2Consumption:    1.5,
		CO2Yield:         2.5,
		COYield:          0.05,
		HClYield:         0.01,
		MolarMass:        104.3233,
	}
}

func TestCompute_ReferenceCase(t *testing.T) {
	c := Compute(referenceInputs(), "Fuel")

	if len(c.Products) != 6 {
		t.Fatalf("len(products) = %d, want 6", len(c.Products))
	}
	if !c.HasHCl() {
		t.Error("expected HYDROGEN CHLORIDE in products")
	}
	wantIDs := []string{Soot, CarbonDioxide, CarbonMonoxide, HydrogenChloride, WaterVapor, Nitrogen}
	for i, id := range c.ProductIDs() {
		if id != wantIDs[i] {
			t.Errorf("products[%d] = %q, want %q", i, id, wantIDs[i])
		}
	}

	wantO2 := 104.3233 / 32 * 1.5
	if !scalar.EqualWithinRel(c.O2, wantO2, 1e-12) {
		t.Errorf("O2 = %v, want %v", c.O2, wantO2)
	}
	wantMass := -(1 + wantO2*(1+3.7619*(28.0/32.0)))
	if got := FormatNu(c.MassReactants); got != "-21.9869" || got != FormatNu(wantMass) {
		t.Errorf("mass reactants = %s, want -21.9869", got)
	}
	// Water goes negative for these yields and is passed through.
	if c.H2O >= 0 {
		t.Errorf("H2O = %v, want negative", c.H2O)
	}
}

func TestCompute_NitrogenFollowsOxygen(t *testing.T) {
	cases := []Inputs{
		referenceInputs(),
		{O2Consumption: 0, MolarMass: 16},
		{O2Consumption: 3.99, CO2Yield: 2.74, MolarMass: 16.04},
		{O2Consumption: 1e-7, MolarMass: 500},
	}
	for _, in := range cases {
		c := Compute(in, "")
		if c.N2 != AirN2Ratio*c.O2 {
			t.Errorf("N2 = %v, want %v", c.N2, AirN2Ratio*c.O2)
		}
	}
}

func TestCompute_HClBoundary(t *testing.T) {
	in := referenceInputs()

	in.HClYield = 1e-9
	c := Compute(in, "Fuel")
	if c.HasHCl() || len(c.Products) != 5 {
		t.Errorf("hcl=1e-9: products = %v, want 5 without HCl", c.ProductIDs())
	}

	in.HClYield = 1.000001e-9
	c = Compute(in, "Fuel")
	if !c.HasHCl() || len(c.Products) != 6 {
		t.Fatalf("hcl=1.000001e-9: products = %v, want 6 with HCl", c.ProductIDs())
	}
	if c.Products[3].Value == 0 {
		t.Error("HCl coefficient should be nonzero")
	}
}

func TestCompute_IndexAligned(t *testing.T) {
	for _, hcl := range []float64{0, 0.2} {
		in := referenceInputs()
		in.HClYield = hcl
		c := Compute(in, "Fuel")
		if len(c.ProductIDs()) != len(c.ProductValues()) {
			t.Errorf("hcl=%v: ids and values differ in length", hcl)
		}
	}
}

func TestCompute_DefaultFuelID(t *testing.T) {
	if got := Compute(referenceInputs(), "").FuelID; got != DefaultFuelID {
		t.Errorf("fuel id = %q, want %q", got, DefaultFuelID)
	}
}

func TestMassReactants_Inverse(t *testing.T) {
	for _, v := range []float64{0, 1, 4.8901546875, 123.456} {
		got := O2FromMassReactants(MassReactants(v))
		if !scalar.EqualWithinAbsOrRel(got, v, 1e-12, 1e-12) {
			t.Errorf("inverse(%v) = %v", v, got)
		}
	}
}

func TestRender_ReferenceCase(t *testing.T) {
	in := referenceInputs()
	block := Build(in, "Fuel")

	for _, want := range []string{
		"&SPEC ID='Fuel' MW=104.3233/\n",
		"&SPEC ID='AIR' BACKGROUND=.TRUE. SPEC_ID(1:2)='OXYGEN','NITROGEN' VOLUME_FRACTION(1:2)=1,3.7619/\n",
		"SPEC_ID(1:6)='SOOT','CARBON DIOXIDE','CARBON MONOXIDE','HYDROGEN CHLORIDE','WATER VAPOR','NITROGEN'",
		"VOLUME_FRACTION(1:6)=0.000091511666667,",
		"0.028581726027397,-0.347805341111111,",
		"&REAC FUEL='Fuel' HEAT_OF_COMBUSTION=31700 SPEC_ID_NU(1:3)='Fuel','AIR','PRODUCTS' NU(1:3)=-1,-21.9869,1 ",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("block missing %q\n%s", want, block)
		}
	}

	lines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	if len(lines) != 11 {
		t.Errorf("record count = %d, want 11", len(lines))
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, "/") {
			t.Errorf("record not terminated: %q", l)
		}
	}
}

func TestRender_NoHClInProducts(t *testing.T) {
	in := referenceInputs()
	in.HClYield = 0
	block := Build(in, "Fuel")

	var products string
	for _, l := range strings.Split(block, "\n") {
		if strings.HasPrefix(l, "&SPEC ID='PRODUCTS'") {
			products = l
		}
	}
	if products == "" {
		t.Fatal("PRODUCTS record missing")
	}
	if strings.Contains(products, HydrogenChloride) {
		t.Errorf("PRODUCTS mentions HCl: %s", products)
	}
	if !strings.Contains(products, "SPEC_ID(1:5)=") || !strings.Contains(products, "VOLUME_FRACTION(1:5)=") {
		t.Errorf("PRODUCTS should declare 5 entries: %s", products)
	}
}

func TestFormat_Precision(t *testing.T) {
	if got := FormatFraction(1.0 / 3.0); got != "0.333333333333333" {
		t.Errorf("FormatFraction = %s", got)
	}
	if got := FormatNu(-21.98689349); got != "-21.9869" {
		t.Errorf("FormatNu = %s", got)
	}
	if got := FormatNative(104.3233); got != "104.3233" {
		t.Errorf("FormatNative = %s", got)
	}
}
