package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonDelta struct {
	Token   string `json:"token"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

func encodeJSON(w io.Writer, token string, deltas []Delta) error {
	out := make([]jsonDelta, 0, len(deltas))
	for _, d := range deltas {
		jd := jsonDelta{Token: token, Path: d.Path, Kind: d.Kind.String(), Deleted: d.Deleted}
		if d.Sample != nil {
			jd.Value = d.Sample.ConvertToJSON()
		}
		out = append(out, jd)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

// encodeOctave renders deltas as a sequence of Octave ASCII variable
// assignments, one struct per delta, in the "# name: ..." form Octave's
// save -ascii produces for scalar and string values.
func encodeOctave(w io.Writer, token string, deltas []Delta) error {
	if _, err := fmt.Fprintf(w, "# scan_token: %s\n# total_deltas: %d\n", token, len(deltas)); err != nil {
		return err
	}
	for i, d := range deltas {
		if _, err := fmt.Fprintf(w, "# name: delta_%d\n# type: struct\n", i); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "path = %q\nkind = %q\ndeleted = %v\n", d.Path, d.Kind.String(), d.Deleted); err != nil {
			return err
		}
		if d.Sample != nil {
			if _, err := fmt.Fprintf(w, "value = %s\n", d.Sample.ConvertToJSON()); err != nil {
				return err
			}
		}
	}
	return nil
}
