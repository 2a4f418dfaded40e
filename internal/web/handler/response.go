package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrInvalidBody is returned when the request body can not be parsed.
var ErrInvalidBody = errors.New("invalid request body")

// OK writes {"success": true, "data": data}.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Created is OK with status 201.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Fail writes {"success": false, "error": msg} with status.
func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// Bind parses the JSON body into in and validates it.
func Bind(c *fiber.Ctx, v *validator.Validate, in any) error {
	if err := c.BodyParser(in); err != nil {
		return ErrInvalidBody
	}

	return v.Struct(in) //nolint:wrapcheck
}

// BindFail answers a Bind error with 400 and a readable message.
func BindFail(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]

		return Fail(c, fiber.StatusBadRequest, "invalid field "+fe.Field()+": "+fe.Tag())
	}

	return Fail(c, fiber.StatusBadRequest, err.Error())
}

// Pagination reads page and pageSize, clamped to sane values.
func Pagination(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize = c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	return page, pageSize
}

// ErrorHandler is the fiber error handler answering every unhandled error as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	return Fail(c, code, msg)
}

// NewValidator returns a validator reporting json field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}
