// This file contains the actual validator implementation for incoming http requests.
//
// You can implement custom validators for each field in this file and reference them in the request structs.

package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/upnext-app/go-server/internal/models/media"
)

var validate *validator.Validate

// Initialize the custom validator
func init() {
	validate = validator.New()
	validate.RegisterValidation("validMediaType", validateMediaType)
}

// ValidateRequest validates a request using a Fiber context and a request struct.
// It parses the request differently based on HTTP method.
func ValidateRequest(c *fiber.Ctx, req interface{}) error {
	switch c.Method() {
	case "GET", "DELETE":
		// Query and path parameters only
		if err := c.QueryParser(req); err != nil {
			return err
		}
		if err := c.ParamsParser(req); err != nil {
			return err
		}
	case "POST", "PUT", "PATCH":
		// Param-only routes (leave group, respond to invitation by path) send
		// no body; BodyParser rejects an empty one, so only parse when present.
		if len(c.Body()) > 0 {
			if err := c.BodyParser(req); err != nil {
				return err
			}
		}
		if err := c.QueryParser(req); err != nil {
			return err
		}
		if err := c.ParamsParser(req); err != nil {
			return err
		}
	}

	return validate.Struct(req)
}

// validateMediaType is a custom validator accepting the six media type names.
func validateMediaType(fl validator.FieldLevel) bool {
	_, err := media.ParseType(fl.Field().String())
	return err == nil
}
