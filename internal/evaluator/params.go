package evaluator

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// ConfigError marks a check that cannot run as declared.
type ConfigError struct {
	Param string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Param != "" {
		return "missing required parameter: " + e.Param
	}
	return fmt.Sprintf("invalid parameters: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("param"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// decode narrows untyped parameters into T. Scalars are coerced, so a
// numeric instance id still becomes a string.
func decode[T any](params map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "param",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, &ConfigError{Err: err}
	}
	if err := dec.Decode(params); err != nil {
		return out, &ConfigError{Err: err}
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return out, &ConfigError{Param: verrs[0].Field(), Err: err}
		}
		return out, &ConfigError{Err: err}
	}
	return out, nil
}
