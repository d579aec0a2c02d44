// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("due_day", validateDueDay)
		_ = v.RegisterValidation("lead_hours", validateLeadHours)
	}
}

// validateDueDay accepts calendar day-of-month anchors. Day 29-31 are
// legal; cycle computation clamps them in shorter months.
func validateDueDay(fl validator.FieldLevel) bool {
	day := fl.Field().Int()
	return day >= 1 && day <= 31
}

// validateLeadHours accepts reminder lead times relative to the 17:00
// deadline, from "at the deadline" (0) up to a full day ahead (24).
func validateLeadHours(fl validator.FieldLevel) bool {
	hours := fl.Field().Int()
	return hours >= 0 && hours <= 24
}
