package sim

import "fmt"

// ConfigError reports an invalid simulation parameter. It is returned
// before any trace text is parsed, so a failed run never leaves partial
// results behind.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
