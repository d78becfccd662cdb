package tabular

import (
	"strings"

	"github.com/kilianp07/routekpi/core/model"
)

// Parse splits text into a header and records. Blank lines are ignored and
// empty input yields an empty table. Rows shorter than the header are padded
// with empty strings; extra values are dropped.
func Parse(text string) model.Table {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return model.Table{Fields: []string{}, Records: []model.Record{}}
	}

	fields := splitLine(lines[0])
	records := make([]model.Record, 0, len(lines)-1)
	for _, l := range lines[1:] {
		values := splitLine(l)
		rec := make(model.Record, len(fields))
		for i, f := range fields {
			if i < len(values) {
				rec[f] = values[i]
			} else {
				rec[f] = ""
			}
		}
		records = append(records, rec)
	}
	return model.Table{Fields: fields, Records: records}
}

func splitLine(line string) []string {
	var (
		values  []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ',' && !quoted:
			values = append(values, cleanValue(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(values, cleanValue(current.String()))
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	return strings.TrimSpace(v)
}
