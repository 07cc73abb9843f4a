package validator

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"workout_scheduler/internal/models"
)

// registerCustomRules регистрирует кастомные теги; ошибка регистрации фатальна
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-person-type", validatePersonType)
	mustRegister("is-sort-direction", validateSortDirection)
	mustRegister("not-blank", validateNotBlank)
}

// Пустые значения не проверяются, для этого есть 'required'

func validatePersonType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PersonType(strings.ToUpper(value)).IsValid()
}

func validateSortDirection(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "", "asc", "desc":
		return true
	default:
		return false
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
