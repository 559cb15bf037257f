package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// slotPattern matches snapshot slot names: they end up as primary keys and CLI arguments
var slotPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Validator checks config structs against their validate tags plus the cross-field rules below
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return slotPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(validateSimulation, SimulationConfig{})
	return &Validator{validate: v}
}

// validateSimulation holds the cross-field rules of the simulation section
func validateSimulation(sl validator.StructLevel) {
	sim := sl.Current().Interface().(SimulationConfig)
	if sim.MinInterval > sim.TickInterval {
		sl.ReportError(sim.MinInterval, "MinInterval", "min_interval", "ltefield", "TickInterval")
	}
	if sim.AutosaveSlot != "" && sim.AutosaveEveryDays == 0 {
		sl.ReportError(sim.AutosaveEveryDays, "AutosaveEveryDays", "autosave_every_days", "required_with", "AutosaveSlot")
	}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidSlot reports whether name is usable as a snapshot slot
func ValidSlot(name string) bool {
	return slotPattern.MatchString(name)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	lines := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		lines = append(lines, fmt.Sprintf("%s: failed %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
