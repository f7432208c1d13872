package validation

import (
	"reflect"
	"strings"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/util"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	ulidTag        = "ulid"
	ulidText       = "{0} must be a valid identifier"
	occupationTag  = "occupation"
	occupationText = "{0} must be one of student, developer, data_scientist, dba"
	requiredTag    = "required"
	requiredText   = "this field is required"
)

// Validator checks request structs and reports problems as domain.ValidationErrors
// with English messages keyed by the form or JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(fieldName)

	_ = validate.RegisterValidation(ulidTag, func(fl validator.FieldLevel) bool {
		return util.IsValidULID(fl.Field().String())
	})
	_ = validate.RegisterValidation(occupationTag, func(fl validator.FieldLevel) bool {
		return domain.Occupation(fl.Field().String()).Valid()
	})

	registerTranslation(validate, translator, ulidTag, ulidText, false)
	registerTranslation(validate, translator, occupationTag, occupationText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &Validator{validate: validate, translator: translator}
}

// Struct validates s and returns nil when it is valid.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ValidationErrors{{Field: "", Message: err.Error()}}
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.ValidationError{
			Field:   fieldPath(fe),
			Message: fe.Translate(v.translator),
		})
	}
	return out
}

// fieldName prefers the form tag, then the JSON tag.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json", "query"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// fieldPath drops the struct name from the namespace, so nested rows read "lessons[2].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
