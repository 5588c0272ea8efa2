package report

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Record is one result row that marshals as a JSON object with its keys in
// column order.
type Record struct {
	columns []string
	values  []any
}

func (r Result) Records() []Record {
	out := make([]Record, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = Record{columns: r.Columns, values: row}
	}
	return out
}

func (r Record) Get(column string) (any, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		v := r.values[i]
		if d, ok := v.(decimal.Decimal); ok {
			v = json.Number(d.String())
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
