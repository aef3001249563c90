package cli

import "fmt"

type invalidArgError struct {
	name  string
	value string
	hint  string
}

func (e invalidArgError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.name, e.value, e.hint)
}

func errInvalidArg(name, value, hint string) error {
	return invalidArgError{name: name, value: value, hint: hint}
}
