package models

import (
	"bytes"
	"encoding/json"
)

type TallyEntry struct {
	Label string
	Count int
}

// Tally is a rank-ordered count per label. Entries are kept as a slice so
// the JSON object comes out in rank order.
type Tally struct {
	Entries []TallyEntry
	Count   int
}

// Map returns the entries as a plain map, losing their order.
func (t Tally) Map() map[string]int {
	out := make(map[string]int, len(t.Entries))
	for _, e := range t.Entries {
		out[e.Label] = e.Count
	}
	return out
}

// writeLabel encodes a label as a JSON string without HTML escaping.
func writeLabel(buf *bytes.Buffer, label string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(label); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

func (t Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"data":{`)
	for i, e := range t.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeLabel(&buf, e.Label); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		count, err := json.Marshal(e.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(count)
	}
	buf.WriteString(`},"count":`)
	count, err := json.Marshal(t.Count)
	if err != nil {
		return nil, err
	}
	buf.Write(count)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Report struct {
	Languages  Tally `json:"programming_languages"`
	Frameworks Tally `json:"programming_frameworks"`
	Locations  Tally `json:"locations"`
	Titles     Tally `json:"titles"`
	Seniority  Tally `json:"seniority"`

	// Postings is the number of postings that went into the tallies.
	Postings int `json:"-"`
}
