package i18n

// Localizer looks up the translation of a source string.
type Localizer interface {
	T(msg string) string
}

// Catalog is a flat message table keyed by the source string. Missing entries
// fall back to the source string itself.
type Catalog map[string]string

func (c Catalog) T(msg string) string {
	if tr, ok := c[msg]; ok && tr != "" {
		return tr
	}
	return msg
}
