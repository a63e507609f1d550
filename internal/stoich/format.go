package stoich

import (
	"strconv"
	"strings"
)

// Precision of the numeric fields written to REAC/SPEC records.
const (
	FractionDigits = 15
	NuDigits       = 4
)

// FormatFraction formats a PRODUCTS volume fraction.
func FormatFraction(v float64) string {
	return strconv.FormatFloat(v, 'f', FractionDigits, 64)
}

// FormatNu formats the reactant mass coefficient of the REAC NU list.
func FormatNu(v float64) string {
	return strconv.FormatFloat(v, 'f', NuDigits, 64)
}

// FormatNative formats a value with the shortest decimal that parses back to it.
func FormatNative(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(s string) string {
	return "'" + s + "'"
}

func quoteList(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = quote(id)
	}
	return strings.Join(q, ",")
}

func fractionList(vs []float64) string {
	f := make([]string, len(vs))
	for i, v := range vs {
		f[i] = FormatFraction(v)
	}
	return strings.Join(f, ",")
}
