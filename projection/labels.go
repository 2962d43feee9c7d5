package projection

// TypeLabels maps raw activity type codes to display labels.
type TypeLabels map[string]string

// Label returns the display label for code, or code itself when unmapped.
func (l TypeLabels) Label(code string) string {
	if label, ok := l[code]; ok && label != "" {
		return label
	}
	return code
}
