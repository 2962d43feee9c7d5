package appenv

import "strings"

// Env is the runtime environment of the service.
type Env string

const (
	Production  Env = "production"
	Development Env = "development"
	Test        Env = "test"
)

// Parse maps a raw APP_ENV value to an Env. Empty and unknown values are
// treated as production.
func Parse(raw string) Env {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(Test):
		return Test
	case string(Development), "dev", "local":
		return Development
	default:
		return Production
	}
}
