package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// PrintJSON writes data as indented JSON.
func PrintJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintJSONLine writes data as a single JSON line, for streams of documents
// such as repeated analyses in watch mode.
func PrintJSONLine(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(data)
}

// PrintYAML writes data as YAML with two-space indentation.
func PrintYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}
