package project

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classtrack/core"
)

var (
	// custom validation tags & texts
	subjectTag  = "subject"
	subjectText = "unknown subject"
	groupTag    = "group"
	groupText   = "unknown group"
)

// InitValidators registers the validators backed by the directory lookup tables.
func InitValidators(validate *validator.Validate, translator ut.Translator, dir Directory) {
	_ = validate.RegisterValidation(subjectTag, func(fl validator.FieldLevel) bool {
		return contains(dir.Subjects(), fl.Field().String())
	})
	registerHintTranslation(validate, translator, subjectTag, subjectText, dir.Subjects)

	_ = validate.RegisterValidation(groupTag, func(fl validator.FieldLevel) bool {
		_, ok := dir.GroupByID(fl.Field().String())
		return ok
	})
	registerHintTranslation(validate, translator, groupTag, groupText, func() []string {
		return groupIDs(dir)
	})
}

// registerHintTranslation adds a "did you mean" suggestion to the error text.
func registerHintTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, candidates func() []string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag)
			if given, ok := fe.Value().(string); ok {
				if match, ok := core.ClosestMatch(given, candidates()); ok {
					s += fmt.Sprintf(" (did you mean %q?)", match)
				}
			}
			return s
		},
	)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func groupIDs(dir Directory) []string {
	groups := dir.Groups()
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids
}
