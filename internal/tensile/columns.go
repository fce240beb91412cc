package tensile

import "strings"

var (
	strainNeedles = []string{"strain", "%"}
	stressNeedles = []string{"stress", "mpa"}
)

// ResolveColumns returns the first header naming strain in percent and the first header
// naming stress in MPa. Matching is case-insensitive and scans left to right.
func ResolveColumns(headers []string) (strain, stress string, err error) {
	si, ti, err := resolveIndices(headers)
	if err != nil {
		return "", "", err
	}
	return headers[si], headers[ti], nil
}

func resolveIndices(headers []string) (strain, stress int, err error) {
	strain = findColumn(headers, strainNeedles)
	if strain < 0 {
		return -1, -1, &ColumnNotFoundError{Column: "strain", Needles: strainNeedles, Headers: headers}
	}
	stress = findColumn(headers, stressNeedles)
	if stress < 0 {
		return -1, -1, &ColumnNotFoundError{Column: "stress", Needles: stressNeedles, Headers: headers}
	}
	return strain, stress, nil
}

// findColumn returns the index of the first header containing every needle, or -1
func findColumn(headers []string, needles []string) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		matched := true
		for _, n := range needles {
			if !strings.Contains(lower, n) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
