package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/controller"
	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

func RegisterOrderRoutes(app *fiber.App, ledger *service.OrderLedger) {
	oc := &controller.OrderController{Ledger: ledger}

	api := app.Group("/api")
	o := api.Group("/orders")

	// Guest checkout is allowed; a valid token attributes the order.
	o.Post("/", middleware.OptionalAuth, oc.Create)

	o.Get("/", middleware.AuthRequired, oc.List)
	o.Get("/:id", middleware.AuthRequired, oc.Get)
	o.Put("/:id/status", middleware.AuthRequired, middleware.RoleRequired("admin"), oc.UpdateStatus)
}
