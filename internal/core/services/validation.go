package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag  = "notblank"
	requiredText = "this field is required"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	registerTranslation(notBlankTag, "this field cannot be blank", false)
	registerTranslation("required", requiredText, true)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// validateStruct runs the struct tags of v and converts failures into a
// *domain.ValidationError naming each offending field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
		names = append(names, fe.Field())
	}
	return domain.NewValidationError(
		errors.Errorf("missing or invalid fields: %s", strings.Join(names, ", ")),
		fields...,
	)
}

// validateVar checks a single value against a tag, reporting failures under field.
func validateVar(field, value, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		msg := "invalid value"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = strings.TrimSpace(strings.TrimPrefix(verrs[0].Translate(translator), verrs[0].Field()))
		}
		return domain.NewValidationError(
			errors.Errorf("invalid %s", field),
			domain.FieldError{Field: field, Error: msg},
		)
	}
	return nil
}

func fieldInvalid(field, msg string) error {
	return domain.NewValidationError(
		errors.Errorf("invalid %s", field),
		domain.FieldError{Field: field, Error: msg},
	)
}
