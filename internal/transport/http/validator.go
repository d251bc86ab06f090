package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"chessrules/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates request bodies, then stores the
// result under the "validatedBody" local for handlers
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	var requestType interface{}

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &CreateGameRequest{}
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &MoveRequest{}
	case strings.HasSuffix(path, "/promotion") && method == fiber.MethodPut:
		requestType = &PromotionRequest{}
	case strings.HasSuffix(path, "/undo") && method == fiber.MethodPost:
		requestType = &UndoRequest{}
	default:
		return c.Next()
	}

	// An empty body means all defaults
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid request body",
				Code:    core.CodeInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	if err := validate.Struct(requestType); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation failed",
				Code:    core.CodeInvalidRequest,
				Details: err.Error(),
			})
		}

		var details strings.Builder
		for _, err := range errs {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			switch err.Tag() {
			case "required":
				details.WriteString(fmt.Sprintf("%s is required", err.Field()))
			case "oneof":
				details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
			case "len":
				details.WriteString(fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param()))
			case "min":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
				}
			case "max":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
				}
			default:
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}

		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation failed",
			Code:    core.CodeInvalidRequest,
			Details: details.String(),
		})
	}

	c.Locals("validatedBody", requestType)
	return c.Next()
}

// validatedBody fetches the request stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (*T, error) {
	req, ok := c.Locals("validatedBody").(*T)
	if !ok || req == nil {
		return nil, c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.CodeInternalError,
		})
	}
	return req, nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
