package reload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/phantom/measurement"
)

// Decoder turns raw source bytes into a measurement table.
type Decoder interface {
	Decode(raw []byte) (*measurement.Table, error)

	// ContentType names the format for logs and debugging.
	ContentType() string
}

// CSVDecoder decodes the lab CSV layout. It is the default.
type CSVDecoder struct {
	Options []measurement.Option
}

// Decode implements Decoder.
func (d CSVDecoder) Decode(raw []byte) (*measurement.Table, error) {
	return measurement.Load(bytes.NewReader(raw), d.Options...)
}

// ContentType returns the CSV MIME type.
func (CSVDecoder) ContentType() string { return "text/csv" }

// JSONDecoder decodes an array of objects keyed by the label and value
// column names:
//
//	[{"sample_label": "EF10_0T", "elastic_modulus_mean_kPa": 54.21}, ...]
type JSONDecoder struct {
	Options []measurement.Option
}

// Decode implements Decoder.
func (d JSONDecoder) Decode(raw []byte) (*measurement.Table, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: json: %v", measurement.ErrDataFormat, err)
	}

	return recordsToTable(records, d.Options)
}

// ContentType returns the JSON MIME type.
func (JSONDecoder) ContentType() string { return "application/json" }

// YAMLDecoder decodes a YAML sequence of mappings with the same keys as
// JSONDecoder.
type YAMLDecoder struct {
	Options []measurement.Option
}

// Decode implements Decoder.
func (d YAMLDecoder) Decode(raw []byte) (*measurement.Table, error) {
	var records []map[string]any
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", measurement.ErrDataFormat, err)
	}

	return recordsToTable(records, d.Options)
}

// ContentType returns the YAML MIME type.
func (YAMLDecoder) ContentType() string { return "application/x-yaml" }

var (
	_ Decoder = CSVDecoder{}
	_ Decoder = JSONDecoder{}
	_ Decoder = YAMLDecoder{}
)

// recordsToTable extracts (label, value) rows from generic records.
func recordsToTable(records []map[string]any, opts []measurement.Option) (*measurement.Table, error) {
	o := measurement.DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	rows := make([]measurement.Row, 0, len(records))
	for i, rec := range records {
		label, ok := rec[o.LabelColumn].(string)
		if !ok {
			return nil, fmt.Errorf("%w: record %d: %s must be a string", measurement.ErrDataFormat, i, o.LabelColumn)
		}
		v, err := number(rec[o.ValueColumn])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %s: %v", measurement.ErrDataFormat, i, o.ValueColumn, err)
		}
		rows = append(rows, measurement.Row{Label: label, Value: v})
	}

	return measurement.NewTable(rows, opts...)
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	case nil:
		return 0, fmt.Errorf("missing")
	}

	return 0, fmt.Errorf("unsupported type %T", v)
}
