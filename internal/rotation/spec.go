package rotation

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// CounterClockwise is the direction character that negates the magnitude.
const CounterClockwise = 'L'

// ParseError reports a rotation instruction whose magnitude is not an integer.
type ParseError struct {
	Spec string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid rotation %q: %v", e.Spec, e.Err)
	}
	return fmt.Sprintf("invalid rotation %q", e.Spec)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseSpec converts an instruction such as "90L" into a signed angle in
// degrees. The final character is the direction; everything before it must
// parse as an integer.
func ParseSpec(spec string) (int, error) {
	direction, size := utf8.DecodeLastRuneInString(spec)
	magnitude := spec[:len(spec)-size]
	if magnitude == "" {
		return 0, &ParseError{Spec: spec, Err: errors.New("need magnitude and direction")}
	}
	angle, err := strconv.Atoi(magnitude)
	if err != nil {
		return 0, &ParseError{Spec: spec, Err: err}
	}
	if direction == CounterClockwise {
		return -angle, nil
	}
	return angle, nil
}
