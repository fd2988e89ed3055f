package handlers

import (
	"errors"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/internal/api/presenters"
	"RecipeHub-Backend/internal/utils/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error onto the HTTP status it is answered with.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrDuplicateStepNumber),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrNoFieldsToUpdate),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return fiber.StatusConflict
	case errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError:
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// failure answers a failed request. Internal errors are logged and hidden
// behind the generic server error message.
func failure(c *fiber.Ctx, log *logger.Logger, message string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error(message, "method", c.Method(), "path", c.Path(), "error", err)
		return presenters.ErrorResponse(c, status, domain.MessageServerError, nil)
	}
	return presenters.ErrorResponse(c, status, message, err)
}

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
