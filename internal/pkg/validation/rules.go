package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// EntityKeyPattern matches contest, language, organization and license keys
	EntityKeyPattern = `^[A-Za-z0-9_]+$`

	// HexColorPattern matches #RRGGBB
	HexColorPattern = `^#[0-9A-Fa-f]{6}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	EntityKey *regexp.Regexp
	HexColor  *regexp.Regexp
}{
	EntityKey: regexp.MustCompile(EntityKeyPattern),
	HexColor:  regexp.MustCompile(HexColorPattern),
}

// IsEntityKey reports whether s is a valid entity key
func IsEntityKey(s string) bool {
	return CompiledPatterns.EntityKey.MatchString(s)
}

// IsHexColor reports whether s is a #RRGGBB colour
func IsHexColor(s string) bool {
	return CompiledPatterns.HexColor.MatchString(s)
}

// RegisterRules adds the custom binding rules to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("entitykey", func(fl validator.FieldLevel) bool {
		return IsEntityKey(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register entitykey: %w", err)
	}
	// #RRGGBB only, the short #RGB form accepted by the builtin is rejected
	if err := v.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
		return IsHexColor(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register hexcolor: %w", err)
	}
	return nil
}

// RegisterGinRules installs the custom rules on gin's default validator engine
func RegisterGinRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterRules(v)
}
