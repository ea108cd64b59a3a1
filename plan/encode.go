package plan

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/winrtgen/errors"
)

// Output formats understood by Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var encoders = map[string]func(io.Writer, interface{}) error{
	FormatYAML: encodeYAML,
	FormatJSON: encodeJSON,
}

// Formats lists the supported output formats.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for f := range encoders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Encode writes v in the named format.
func Encode(w io.Writer, format string, v interface{}) error {
	enc, ok := encoders[strings.ToLower(format)]
	if !ok {
		return errors.WithHintf(
			errors.NewInvalidInputf("unknown output format %q", format),
			"supported formats: %s", strings.Join(Formats(), ", "),
		)
	}
	return enc(w, v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return errors.Wrap(enc.Close(), "encoding yaml")
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding json")
}
