package validator

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Entity type names accepted on the wire.
const (
	EntityDoctor     = "doctor"
	EntityHospital   = "hospital"
	EntityDepartment = "department"
	EntityAll        = "all"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'entity-type': doctor, hospital or department
	mustRegister("entity-type", validateEntityType)

	// 'live-entity-type': entity-type plus "all"; empty passes
	mustRegister("live-entity-type", validateLiveEntityType)
}

func validateEntityType(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case EntityDoctor, EntityHospital, EntityDepartment:
		return true
	default:
		return false
	}
}

func validateLiveEntityType(fl validator.FieldLevel) bool {
	value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if value == "" || value == EntityAll {
		return true
	}
	return validateEntityType(fl)
}
