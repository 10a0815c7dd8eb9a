package nodes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors line up with what the editor sends.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError describes one invalid config field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a node's config.
type ValidationError struct {
	NodeID string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("node %q: %s", e.NodeID, strings.Join(parts, "; "))
}

// Validate checks the node's config against its field rules. It returns a
// *ValidationError when fields are invalid. A node without a config fails
// with ErrUnknownKind, as does a typed nil config.
func (n Node) Validate() error {
	if !n.HasConfig() {
		return fmt.Errorf("node %q: %w", n.ID, ErrUnknownKind)
	}
	fields := ValidateStruct(n.Config)
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{NodeID: n.ID, Fields: fields}
}

// ValidateStruct applies the same rules to any tagged struct, e.g. workflow settings.
func ValidateStruct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
