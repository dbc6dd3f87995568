package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/controller"
	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

func RegisterInventoryRoutes(app *fiber.App, inventory *service.Inventory) {
	ic := &controller.InventoryController{Inventory: inventory}

	api := app.Group("/api")
	inv := api.Group("/inventory", middleware.AuthRequired, middleware.RoleRequired("admin"))

	inv.Post("/update", ic.Update)
	inv.Get("/low-stock", ic.LowStock)
	inv.Get("/product/:id", ic.History)
}
