package config

import (
	"fmt"

	"github.com/yapb/amxx-release/internal/validator"
)

type MissingVersionError struct{}

func (e *MissingVersionError) Error() string {
	return "a release version is required"
}

type InvalidVersionError struct {
	Version string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("release version '%s' must not contain path separators or whitespace", e.Version)
}

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type InvalidConfigError struct {
	Path    string
	Wrapped error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s does not match the config schema: %v", e.Path, e.Wrapped)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Wrapped
}

type InvalidRepositoryError struct {
	Value string
}

func (e *InvalidRepositoryError) Error() string {
	return fmt.Sprintf("repository '%s' must be in the form owner/name", e.Value)
}

type UnsupportedDraftError struct {
	Draft validator.Draft
}

func (e *UnsupportedDraftError) Error() string {
	if e.Draft == "" {
		return "schema does not declare a $schema draft"
	}
	return fmt.Sprintf("schema draft %s is not supported by the validator", e.Draft)
}
