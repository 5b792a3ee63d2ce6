package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/samanvaya/samanvaya/pkg/errs"
)

var defaultLogConfig = config.LogServerConfig{
	Level: "info",
}

// newValidator reports fields under their json names so errors match the
// wire format callers send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return v
}

func (s *SQLiteStore) validateStruct(value any) error {
	err := s.validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return errs.Invalid(fe.Field(), "failed '%s=%s' constraint", fe.Tag(), fe.Param())
		}
		return errs.Invalid(fe.Field(), "failed '%s' constraint", fe.Tag())
	}
	return errs.Invalid("", "%v", err)
}
