// Package history keeps the rolling per-run results behind the status
// dashboard. The persisted artifact is a JavaScript file declaring one
// JSON object; key order is meaningful (insertion order = chronology),
// so serialization is hand-rolled instead of using map-based encoding.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
)

// MaxEntries caps how many run batches the dashboard keeps.
const MaxEntries = 50

// Record is one space's result inside a batch, shaped the way the
// dashboard script consumes it.
type Record struct {
	Status    bool   `json:"status"`
	Duration  string `json:"duration"`
	ErrorType string `json:"error_type"`
}

// NamedRecord keeps the per-space insertion order within a batch.
type NamedRecord struct {
	Name   string
	Record Record
}

// Entry is one run batch under its timestamp key.
type Entry struct {
	Timestamp string
	Records   []NamedRecord
}

// History is an insertion-ordered timestamp → batch mapping.
type History struct {
	Entries []Entry
}

// The dashboard presents Beijing time; a fixed offset avoids a tzdata
// dependency and the zone has no DST.
var cst = time.FixedZone("CST", 8*60*60)

// TimestampKey formats t as the dashboard's entry key, second precision.
func TimestampKey(t time.Time) string {
	return t.In(cst).Format("2006-01-02 15:04:05")
}

// BatchFrom converts a run's outcomes into dashboard records, preserving
// target order.
func BatchFrom(outcomes []domain.CheckOutcome) []NamedRecord {
	recs := make([]NamedRecord, 0, len(outcomes))
	for _, o := range outcomes {
		recs = append(recs, NamedRecord{
			Name: o.DisplayName(),
			Record: Record{
				Status:    o.Succeeded != nil && *o.Succeeded,
				Duration:  fmt.Sprintf("%.2f秒", o.Duration),
				ErrorType: string(o.Kind),
			},
		})
	}
	return recs
}

// Append adds one batch and evicts the oldest entries past MaxEntries.
// A repeated key (two runs inside one second) replaces the previous
// batch, keeping keys unique the way a map insert would.
func (h *History) Append(timestamp string, batch []NamedRecord) {
	if n := len(h.Entries); n > 0 && h.Entries[n-1].Timestamp == timestamp {
		h.Entries[n-1] = Entry{Timestamp: timestamp, Records: batch}
		return
	}
	h.Entries = append(h.Entries, Entry{Timestamp: timestamp, Records: batch})
	if n := len(h.Entries) - MaxEntries; n > 0 {
		h.Entries = append([]Entry(nil), h.Entries[n:]...)
	}
}

// Totals returns the overall check and success counts across all entries.
func (h *History) Totals() (total, succeeded int) {
	for _, e := range h.Entries {
		for _, nr := range e.Records {
			total++
			if nr.Record.Status {
				succeeded++
			}
		}
	}
	return total, succeeded
}

// Last returns the most recent timestamp key, or "" for an empty history.
func (h *History) Last() string {
	if len(h.Entries) == 0 {
		return ""
	}
	return h.Entries[len(h.Entries)-1].Timestamp
}

// MarshalOrdered serializes the history with keys in insertion order.
func (h *History) MarshalOrdered() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, e.Timestamp); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, nr := range e.Records {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, nr.Name); err != nil {
				return nil, err
			}
			b, err := json.Marshal(nr.Record)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) error {
	b, err := json.Marshal(k)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// parseOrdered walks the object with a token decoder so key order
// survives the round trip.
func parseOrdered(data []byte) (*History, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	h := &History{}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("history: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		ts, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("history: non-string entry key %v", keyTok)
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("history: entry %q is not an object", ts)
		}

		entry := Entry{Timestamp: ts}
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := nameTok.(string)
			if !ok {
				return nil, fmt.Errorf("history: non-string space key %v", nameTok)
			}
			var rec Record
			if err := dec.Decode(&rec); err != nil {
				return nil, err
			}
			entry.Records = append(entry.Records, NamedRecord{Name: name, Record: rec})
		}
		if _, err := dec.Token(); err != nil { // consume closing '}'
			return nil, err
		}
		h.Entries = append(h.Entries, entry)
	}
	return h, nil
}
