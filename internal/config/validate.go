package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"k8s.io/apimachinery/pkg/api/resource"
)

var (
	// namestrRegex constrains project names and namespaces.
	namestrRegex = regexp.MustCompile(`^[A-Za-z0-9-_]+$`)
	// acmeEmailRegex is the loose address check Let's Encrypt registration needs.
	acmeEmailRegex = regexp.MustCompile(`^[^ @]+@[^ @]+\.[^ @]+$`)
)

// fieldNames maps Go field names used as tag parameters to document keys.
var fieldNames = map[string]string{
	"MinNodes": "min_nodes",
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	must("namestr", func(fl validator.FieldLevel) bool {
		return namestrRegex.MatchString(fl.Field().String())
	})
	must("acme_email", func(fl validator.FieldLevel) bool {
		return acmeEmailRegex.MatchString(fl.Field().String())
	})
	must("quantity", func(fl validator.FieldLevel) bool {
		_, err := resource.ParseQuantity(fl.Field().String())
		return err == nil
	})
	must("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.IsValid()
	})
	return v
}

// validateFields runs the struct tag constraints over c and its resolved
// authentication variant.
func validateFields(c *Config, issues *issueList) {
	collectFieldErrors(structValidator.Struct(c), "", issues)
	if p := c.Security.Authentication.Provider; p != nil {
		collectFieldErrors(structValidator.Struct(p), "security.authentication", issues)
	}
}

func collectFieldErrors(err error, prefix string, issues *issueList) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		issues.at(KindFieldConstraint, prefix, "%v", err)
		return
	}
	for _, fe := range fieldErrs {
		issues.at(KindFieldConstraint, namespacePath(prefix, fe.Namespace()), "%s", describe(fe))
	}
}

// namespacePath drops the root struct name from a validator namespace such
// as "Config.profiles.jupyterlab[0].display_name" and joins it to prefix.
func namespacePath(prefix, namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = ""
	}
	switch {
	case prefix == "":
		return rest
	case rest == "":
		return prefix
	default:
		return prefix + "." + rest
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "namestr":
		return fmt.Sprintf("string does not match regex %q", namestrRegex.String())
	case "acme_email":
		return fmt.Sprintf("string does not match regex %q", acmeEmailRegex.String())
	case "quantity":
		return fmt.Sprintf("%q is not a valid Kubernetes resource quantity", fe.Value())
	case "enum":
		if e, ok := fe.Value().(enum); ok {
			return fmt.Sprintf("value is not a valid enumeration member; permitted: %s", joinOptions(e))
		}
		return "value is not a valid enumeration member"
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "gtefield":
		param := fe.Param()
		if name, ok := fieldNames[param]; ok {
			param = name
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", param)
	case "min":
		return fmt.Sprintf("ensure this value has at least %s items", fe.Param())
	case "len":
		return fmt.Sprintf("ensure this value has exactly %s characters", fe.Param())
	case "alphanum", "lowercase":
		return "must contain only lowercase letters and digits"
	default:
		return fmt.Sprintf("failed the %q constraint", fe.Tag())
	}
}

// ValidateName checks a project name or namespace outside a document, for
// example while prompting for one.
func ValidateName(s string) error {
	if !namestrRegex.MatchString(s) {
		return fmt.Errorf("%q does not match regex %q", s, namestrRegex.String())
	}
	return nil
}
