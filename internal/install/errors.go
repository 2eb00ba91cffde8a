package install

import "fmt"

// ConfigError reports an unusable configuration: a bad expansion index or an
// install path where nothing could be opened.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// DataError reports a tag archive that opened but whose content is unusable.
type DataError struct {
	Pack  Pack
	Path  string
	Cause error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("pack %s: %s: %v", e.Pack, e.Path, e.Cause)
}

func (e *DataError) Unwrap() error {
	return e.Cause
}
