package parser

import (
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// typedValue converts a raw cell string into a table value using the stored cell type.
// Text cells stay text so identifiers such as "00123" keep their leading zeros.
func typedValue(raw string, cellType excelize.CellType) interface{} {
	if raw == "" {
		return nil
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeDate:
		return parseDate(raw)
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	default:
		return parseValue(raw)
	}
}

// isoLayouts are the forms an ISO 8601 date cell (t="d") may take.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseDate returns the time stored in an ISO 8601 date cell, or raw when it
// does not parse.
func parseDate(raw string) interface{} {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return raw
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
