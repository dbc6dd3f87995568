package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

// serviceError maps the domain error taxonomy onto HTTP statuses and
// the {status:"error", message} payload shape.
func serviceError(c *fiber.Ctx, err error) error {
	var (
		validation   *service.ValidationError
		notFound     *service.NotFoundError
		insufficient *service.InsufficientStockError
		transaction  *service.TransactionError
	)

	switch {
	case errors.As(err, &validation):
		return respondError(c, 400, err.Error())
	case errors.As(err, &insufficient):
		return respondError(c, 400, err.Error())
	case errors.As(err, &notFound):
		return respondError(c, 404, err.Error())
	case errors.As(err, &transaction):
		log.Printf("transaction aborted: %v", transaction.Err)
		return respondError(c, 500, "Transaction aborted, please retry")
	default:
		log.Printf("unhandled error: %v", err)
		return respondError(c, 500, "Internal server error")
	}
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
