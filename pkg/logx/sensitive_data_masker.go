package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// Headers.
	regexp.MustCompile("(?s)(Authorization: ).+?(\r)"),
	regexp.MustCompile("(?s)(Cookie: ).+?(\r)"),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("[Tt]oken":\s?").+?(")`),
	// Credentials embedded in connection strings.
	regexp.MustCompile(`((?:postgres|postgresql|redis)://[^:/@\s"]+:)[^@\s"]+(@)`),
}

// SensitiveDataMasker hides credentials in dumped requests and responses.
// A disabled masker returns its input unchanged.
type SensitiveDataMasker struct {
	disabled bool
}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func NewNopSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{disabled: true}
}

func (s SensitiveDataMasker) WithEnabled(enabled bool) SensitiveDataMasker {
	s.disabled = !enabled
	return s
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	if s.disabled {
		return input
	}

	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
