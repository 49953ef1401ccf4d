package model

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/phishing-detector/internal/features"
)

// Numeric feature columns, in the order the extractor emits them.
const (
	ColumnURLLength       = "url_length"
	ColumnNumSpecialChars = "num_special_chars"
	ColumnIsIP            = "is_ip"
	ColumnSubdomainLength = "subdomain_length"
	ColumnHasHTTPS        = "has_https"
)

// One-hot column prefixes for the categorical parts.
const (
	prefixSubdomain = "subdomain_"
	prefixDomain    = "domain_"
	prefixSuffix    = "suffix_"
)

var numericColumns = map[string]func(features.Vector) float64{
	ColumnURLLength:       func(v features.Vector) float64 { return float64(v.URLLength) },
	ColumnNumSpecialChars: func(v features.Vector) float64 { return float64(v.NumSpecialChars) },
	ColumnIsIP:            func(v features.Vector) float64 { return float64(v.IsIP) },
	ColumnSubdomainLength: func(v features.Vector) float64 { return float64(v.SubdomainLength) },
	ColumnHasHTTPS:        func(v features.Vector) float64 { return float64(v.HasHTTPS) },
}

// Encoder maps a feature vector onto a model's column layout. The raw URL
// is never a column. Categorical parts are one-hot encoded as
// "<part>_<value>"; values the model was not trained on, and absent parts,
// set no column.
type Encoder struct {
	columns []string
	numeric []numericColumn
	onehot  map[string]int
}

type numericColumn struct {
	index int
	value func(features.Vector) float64
}

// NewEncoder validates columns and builds an encoder for them.
func NewEncoder(columns []string) (*Encoder, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrFeatureMismatch)
	}

	enc := &Encoder{
		columns: append([]string(nil), columns...),
		onehot:  make(map[string]int),
	}
	seen := make(map[string]bool, len(columns))

	for i, col := range columns {
		if seen[col] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrFeatureMismatch, col)
		}
		seen[col] = true

		if value, ok := numericColumns[col]; ok {
			enc.numeric = append(enc.numeric, numericColumn{index: i, value: value})
			continue
		}
		if !isCategoricalColumn(col) {
			return nil, fmt.Errorf("%w: unknown column %q", ErrFeatureMismatch, col)
		}
		enc.onehot[col] = i
	}

	return enc, nil
}

func isCategoricalColumn(col string) bool {
	return strings.HasPrefix(col, prefixSubdomain) ||
		strings.HasPrefix(col, prefixDomain) ||
		strings.HasPrefix(col, prefixSuffix)
}

// Width is the number of encoded columns.
func (e *Encoder) Width() int {
	return len(e.columns)
}

// Columns returns a copy of the column names in encoding order.
func (e *Encoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Encode returns the model input row for v.
func (e *Encoder) Encode(v features.Vector) []float64 {
	row := make([]float64, len(e.columns))

	for _, col := range e.numeric {
		row[col.index] = col.value(v)
	}

	e.setOneHot(row, prefixSubdomain, v.Subdomain)
	e.setOneHot(row, prefixDomain, v.Domain)
	e.setOneHot(row, prefixSuffix, v.Suffix)

	return row
}

func (e *Encoder) setOneHot(row []float64, prefix string, value *string) {
	if value == nil {
		return
	}
	if i, ok := e.onehot[prefix+*value]; ok {
		row[i] = 1
	}
}
