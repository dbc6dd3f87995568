package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/controller"
	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

func RegisterCategoryRoutes(app *fiber.App, catalog *service.Catalog) {
	cc := &controller.CategoryController{Catalog: catalog}

	api := app.Group("/api")
	cat := api.Group("/categories")

	cat.Get("/", cc.List)
	cat.Post("/", middleware.AuthRequired, middleware.RoleRequired("admin"), cc.Create)
	cat.Put("/:id", middleware.AuthRequired, middleware.RoleRequired("admin"), cc.Update)
	cat.Delete("/:id", middleware.AuthRequired, middleware.RoleRequired("admin"), cc.Delete)
}
