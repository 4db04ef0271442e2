// Package export renders parsed recordings as CSV rows and JSON documents.
package export

import (
	"github.com/OCAP2/acmi/internal/parser"
	"github.com/OCAP2/acmi/pkg/core"
)

// Fixed leading CSV columns. Only ReferenceTime, Category and Time are not
// entity properties.
const (
	ColReferenceTime = "ReferenceTime"
	ColCategory      = "Category"
	ColTime          = "Time"
)

var fixedColumns = []string{
	ColReferenceTime, ColCategory, core.PropID, core.PropName, core.PropTags, core.PropType, ColTime,
}

// KnownColumns returns every column a CSV export can carry for known
// properties, in output order: fixed columns, T components, text properties,
// numeric properties.
func KnownColumns() []string {
	seen := make(map[string]struct{})
	var cols []string
	add := func(names ...string) {
		for _, n := range names {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			cols = append(cols, n)
		}
	}
	add(fixedColumns...)
	add(parser.TransformProperties...)
	add(parser.TextProperties...)
	add(parser.NumericProperties...)
	return cols
}

// Columns returns the CSV header for rec. Observed properties outside the
// known vocabulary are appended in first-seen order. With removeEmpty, known
// columns with no data are dropped; ID, Name and Time are always kept.
func Columns(rec *core.Recording, removeEmpty bool) []string {
	known := KnownColumns()
	isKnown := make(map[string]struct{}, len(known))
	for _, c := range known {
		isKnown[c] = struct{}{}
	}

	session := rec.Session()
	var cols []string
	for _, c := range known {
		if removeEmpty {
			switch c {
			case core.PropID, core.PropName, ColTime:
			case ColReferenceTime:
				if session.ReferenceTime.IsZero() {
					continue
				}
			case ColCategory:
				if session.Category == "" {
					continue
				}
			default:
				if !rec.HasField(c) {
					continue
				}
			}
		}
		cols = append(cols, c)
	}

	for _, f := range rec.Fields() {
		if _, ok := isKnown[f]; !ok {
			cols = append(cols, f)
		}
	}
	return cols
}
