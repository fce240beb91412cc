package tensile

import "strings"

// MergeHeaders combines the label and unit rows into one name per column.
// A column with a blank unit keeps its bare label, otherwise the name is "<label> <unit>".
func MergeHeaders(labels, units []string) []string {
	headers := make([]string, len(labels))
	for i, label := range labels {
		if i >= len(units) || strings.TrimSpace(units[i]) == "" {
			headers[i] = label
			continue
		}
		headers[i] = label + " " + units[i]
	}
	return headers
}
