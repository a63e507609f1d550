package reacservice

import (
	"strconv"

	"github.com/starford/fdsreac/internal/stoich"
)

// RawInputs converts loosely typed field values (decoded JSON, MCP tool
// arguments) into the string form accepted by stoich.ParseInputs. Keys
// outside stoich.FieldOrder are dropped; absent keys stay absent.
func RawInputs(args map[string]any) map[string]string {
	out := make(map[string]string, len(stoich.FieldOrder))
	for _, name := range stoich.FieldOrder {
		v, ok := args[name]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case string:
			out[name] = x
		case float64:
			out[name] = strconv.FormatFloat(x, 'g', -1, 64)
		case float32:
			out[name] = strconv.FormatFloat(float64(x), 'g', -1, 32)
		case int:
			out[name] = strconv.Itoa(x)
		case int64:
			out[name] = strconv.FormatInt(x, 10)
		default:
			out[name] = "?"
		}
	}
	return out
}

// InputsToRaw renders a complete input set in the string form accepted by
// stoich.ParseInputs.
func InputsToRaw(in stoich.Inputs) map[string]string {
	out := make(map[string]string, len(stoich.FieldOrder))
	for name, v := range in.Fields() {
		out[name] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
