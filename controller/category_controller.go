package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

type CategoryController struct {
	Catalog *service.Catalog
}

func (cc *CategoryController) List(c *fiber.Ctx) error {
	categories, err := cc.Catalog.ListCategories(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "categories": categories})
}

func (cc *CategoryController) Create(c *fiber.Ctx) error {
	var body struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}

	category, err := cc.Catalog.CreateCategory(c.Context(), body.Name, body.Image)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"status": "success", "category": category})
}

func (cc *CategoryController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid category id")
	}

	var body struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}

	category, err := cc.Catalog.UpdateCategory(c.Context(), uint(id), body.Name, body.Image)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "category": category})
}

func (cc *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid category id")
	}

	if err := cc.Catalog.DeleteCategory(c.Context(), uint(id)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Category deleted"})
}
