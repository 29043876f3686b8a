// api/utils/validation.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tagNameOnce sync.Once

// UseJSONFieldNames makes gin's validator report JSON tag names instead of
// Go struct field names, so 400 responses name the field the client sent.
// Call once before registering routes.
func UseJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// BindingError translates a gin binding failure into a message plus the
// first offending field name. Non-validator errors (malformed JSON, type
// mismatches) yield a generic message with no field.
func BindingError(err error) (message, field string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field()), fe.Field()
		case "email":
			return fmt.Sprintf("%s must be a valid email address", fe.Field()), fe.Field()
		default:
			return fmt.Sprintf("%s is invalid", fe.Field()), fe.Field()
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field), typeErr.Field
	}

	return "Invalid request body", ""
}
