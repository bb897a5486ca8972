package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// maxBodyBytes bounds request bodies; feedback text is the largest field
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		return domain.Semester(fl.Field().String()).Valid()
	})
	v.RegisterValidation("usertype", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	return v
}

// bind decodes a JSON body into dst and runs its validate tags.
// Failures come back as a Validation error listing every rejected field.
func bind(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return validateStruct(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewInvalid(domain.FieldError{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		})
	}
	return domain.NewInvalid(domain.FieldError{Field: "body", Message: "malformed JSON request body"})
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: fieldMessage(t, fe)})
	}
	return domain.NewInvalid(fields...)
}

// fieldMessage looks up the msg tag of the failing field, e.g.
// `msg:"required=Email is required;email=Invalid email format"`.
func fieldMessage(t reflect.Type, fe validator.FieldError) string {
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		for _, rule := range strings.Split(sf.Tag.Get("msg"), ";") {
			tag, text, found := strings.Cut(rule, "=")
			if found && tag == fe.Tag() {
				return text
			}
		}
	}

	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "max":
		return "size must be at most " + fe.Param()
	case "min":
		return "size must be at least " + fe.Param()
	}
	return "is invalid"
}

// pathID parses a numeric path segment
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, domain.NewInvalid(domain.FieldError{Field: name, Message: "must be a number"})
	}
	return id, nil
}
