package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/penzolll/umi-kelontong-digital-siap/controller"
	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
)

func RegisterAuthRoutes(app *fiber.App, db *gorm.DB) {
	ac := &controller.AuthController{DB: db}

	api := app.Group("/api")
	auth := api.Group("/auth")

	auth.Post("/register", ac.Register)
	auth.Post("/login", ac.Login)
	auth.Get("/me", middleware.AuthRequired, ac.Me)
}
