// Package text converts scalar values to and from their textual form.
// Writers surface rejected input as a ValidationError so callers can display
// it instead of treating it as a crash.
package text

import (
	"fmt"
	"strconv"
)

// ValidationError reports that textual input was rejected by a parser.
type ValidationError struct {
	Input string
	Type  string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func validationErr(typ, input string, err error) error {
	return &ValidationError{Input: input, Type: typ, Err: err}
}

// FromString parses s into the scalar pointed to by dst. Integral parsers
// reject out-of-range input. Unsupported destination types are a programmer
// error and reported as a plain error.
func FromString(dst any, s string) error {
	switch p := dst.(type) {
	case *string:
		*p = s
		return nil
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return validationErr("bool", s, err)
		}
		*p = v
		return nil
	case *int:
		v, err := strconv.ParseInt(s, 10, strconv.IntSize)
		if err != nil {
			return validationErr("int", s, err)
		}
		*p = int(v)
		return nil
	case *int8:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return validationErr("int8", s, err)
		}
		*p = int8(v)
		return nil
	case *int16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return validationErr("int16", s, err)
		}
		*p = int16(v)
		return nil
	case *int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return validationErr("int32", s, err)
		}
		*p = int32(v)
		return nil
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return validationErr("int64", s, err)
		}
		*p = v
		return nil
	case *uint:
		v, err := strconv.ParseUint(s, 10, strconv.IntSize)
		if err != nil {
			return validationErr("uint", s, err)
		}
		*p = uint(v)
		return nil
	case *uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return validationErr("uint8", s, err)
		}
		*p = uint8(v)
		return nil
	case *uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return validationErr("uint16", s, err)
		}
		*p = uint16(v)
		return nil
	case *uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return validationErr("uint32", s, err)
		}
		*p = uint32(v)
		return nil
	case *uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return validationErr("uint64", s, err)
		}
		*p = v
		return nil
	case *float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return validationErr("float32", s, err)
		}
		*p = float32(v)
		return nil
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return validationErr("float64", s, err)
		}
		*p = v
		return nil
	default:
		return fmt.Errorf("unsupported conversion target %T", dst)
	}
}

// ToString renders a scalar as text. Unsupported types fall back to fmt.
func ToString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
