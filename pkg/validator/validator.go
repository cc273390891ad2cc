package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *playground.Validate
)

// Default returns the shared go-playground validator with carrier's custom
// tags registered: govid, token, password and utf8. Field names are taken
// from the json tag.
func Default() *playground.Validate {
	once.Do(func() {
		v := playground.New(playground.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
		mustRegister(v, "govid", IsGovID)
		mustRegister(v, "token", IsToken)
		mustRegister(v, "password", IsPassword)
		mustRegister(v, "utf8", CheckUTF8)
		instance = v
	})
	return instance
}

func mustRegister(v *playground.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl playground.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", tag, err))
	}
}

// ValidateStruct validates v against its `validate` tags. Failed rules are
// returned as ValidationErrors.
func ValidateStruct(v any) error {
	err := Default().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *playground.InvalidValidationError
	if errors.As(err, &invalid) {
		return errors.Join(ErrInvalidTarget, err)
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// message renders a Spanish message for the rules carrier forms use.
func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio.", fe.Field())
	case "email":
		return "La dirección de correo electrónico no es válida."
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo %s no puede superar %s caracteres.", fe.Field(), fe.Param())
	case "govid":
		return "El NIF o NIE no es válido."
	case "token":
		return "El código no es válido."
	case "password":
		return fmt.Sprintf("La contraseña debe tener al menos %d caracteres, una mayúscula, una minúscula y un número.", PasswordMinLength)
	case "utf8":
		return fmt.Sprintf("El campo %s contiene caracteres no válidos.", fe.Field())
	case "oneof":
		return fmt.Sprintf("El valor del campo %s no está permitido.", fe.Field())
	}
	return fmt.Sprintf("El campo %s no es válido.", fe.Field())
}
