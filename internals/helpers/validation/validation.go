// Package validation wires go-playground/validator with English messages and
// the school-specific tags used by the request DTOs.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"registrar_backend/internals/helpers/apperr"
)

var (
	courseAbvTag   = "course_abv"
	courseAbvText  = "{0} must be letters, digits or hyphens (max 10)"
	courseAbvRegex = regexp.MustCompile(`^[A-Z0-9-]{1,10}$`)

	studentIDTag   = "student_id"
	studentIDText  = "{0} must be letters, digits or hyphens"
	studentIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

	subjectCodeTag   = "subject_code"
	subjectCodeText  = "{0} must be uppercase letters, digits, hyphens or underscores"
	subjectCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)

	sectionNameTag   = "section_name"
	sectionNameText  = "{0} must be uppercase letters, digits, hyphens or underscores"
	sectionNameRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)

	schoolYearTag   = "school_year"
	schoolYearText  = "{0} must look like 2024-2025"
	schoolYearRegex = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

	requiredText = "{0} is required"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func setup() {
	validate = validator.New()
	uni := ut.New(en.New())
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	// JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerRegex(courseAbvTag, courseAbvText, courseAbvRegex)
	registerRegex(studentIDTag, studentIDText, studentIDRegex)
	registerRegex(subjectCodeTag, subjectCodeText, subjectCodeRegex)
	registerRegex(sectionNameTag, sectionNameText, sectionNameRegex)

	_ = validate.RegisterValidation(schoolYearTag, func(fl validator.FieldLevel) bool {
		return IsSchoolYear(fl.Field().String())
	})
	registerTranslation(schoolYearTag, schoolYearText, false)
	registerTranslation("required", requiredText, true)
}

func registerRegex(tag, text string, re *regexp.Regexp) {
	_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	registerTranslation(tag, text, false)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func Validator() *validator.Validate {
	once.Do(setup)
	return validate
}

// Struct validates s and converts failures into an apperr validation error
// keyed by JSON field name.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Validation(err.Error(), nil)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Translate(trans)
	}
	return apperr.Validation("validation failed", fields)
}

// IsSchoolYear accepts "YYYY-YYYY" where the second year follows the first.
func IsSchoolYear(s string) bool {
	m := schoolYearRegex.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	return b == a+1
}

// NormalizeSection trims and uppercases a section name.
func NormalizeSection(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func IsSectionName(s string) bool { return sectionNameRegex.MatchString(s) }
