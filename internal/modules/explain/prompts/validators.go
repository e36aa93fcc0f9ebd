package prompts

import (
	"fmt"
	"strings"
)

// Validator rejects an Input before any template is rendered.
type Validator func(Input) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}
