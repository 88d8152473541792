package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// bindJSON decodes the body into payload and runs its validate tags. On
// failure it writes the error response itself and returns ok=false.
func (handler *Handler) bindJSON(c *fiber.Ctx, payload any, invalidCode string) (bool, error) {
	if err := c.BodyParser(payload); err != nil {
		return false, handler.apiError(c, fiber.StatusBadRequest, errInvalidInput)
	}
	if err := handler.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   invalidCode,
				"message": handler.message(c, errorMessageKeys[invalidCode]),
				"fields":  invalidFieldNames(validationErrors),
			})
		}
		return false, handler.apiError(c, fiber.StatusBadRequest, invalidCode)
	}
	return true, nil
}

func invalidFieldNames(validationErrors validator.ValidationErrors) []string {
	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		namespace := fieldError.Namespace()
		if separator := strings.Index(namespace, "."); separator >= 0 {
			namespace = namespace[separator+1:]
		}
		fields = append(fields, namespace)
	}
	return fields
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}
