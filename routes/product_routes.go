package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/controller"
	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

func RegisterProductRoutes(app *fiber.App, catalog *service.Catalog) {
	pc := &controller.ProductController{Catalog: catalog}

	api := app.Group("/api")
	p := api.Group("/products")

	p.Get("/", pc.List)
	p.Get("/:id", pc.Get)
	p.Post("/", middleware.AuthRequired, middleware.RoleRequired("admin"), pc.Create)
	p.Put("/:id", middleware.AuthRequired, middleware.RoleRequired("admin"), pc.Update)
	p.Delete("/:id", middleware.AuthRequired, middleware.RoleRequired("admin"), pc.Delete)
}
