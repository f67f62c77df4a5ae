package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the configuration against the struct-level validation
// rules. Defaults must have been applied first; a zero Config does not
// validate.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("field %s failed %q validation (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
