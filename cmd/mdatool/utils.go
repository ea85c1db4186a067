package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/yaml"
)

// encodeOutput encodes v in the given output format.
func encodeOutput(v any, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(v)
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
