package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

type ProductController struct {
	Catalog *service.Catalog
}

func (pc *ProductController) List(c *fiber.Ctx) error {
	categoryID, _ := strconv.Atoi(c.Query("category"))

	products, err := pc.Catalog.ListProducts(c.Context(), service.ProductFilter{
		CategoryID: uint(categoryID),
		Search:     c.Query("search"),
		Promo:      c.Query("promo") == "true",
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "products": products})
}

func (pc *ProductController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid product id")
	}

	product, related, err := pc.Catalog.GetProduct(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":          "success",
		"product":         product,
		"relatedProducts": related,
	})
}

type productRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discountPrice"`
	Category      *uint  `json:"category"`
	Image         string `json:"image"`
	Stock         int    `json:"stock"`
	IsFeatured    bool   `json:"isFeatured"`
	IsPromo       bool   `json:"isPromo"`
}

func (pc *ProductController) Create(c *fiber.Ctx) error {
	var body productRequest
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}

	product, err := pc.Catalog.CreateProduct(c.Context(), service.ProductInput{
		Name:          body.Name,
		Description:   body.Description,
		Price:         body.Price,
		DiscountPrice: body.DiscountPrice,
		CategoryID:    body.Category,
		Image:         body.Image,
		Stock:         body.Stock,
		IsFeatured:    body.IsFeatured,
		IsPromo:       body.IsPromo,
	}, middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"status": "success", "product": product})
}

type productUpdateRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price"`
	DiscountPrice *int64  `json:"discountPrice"`
	Category      *uint   `json:"category"`
	Image         *string `json:"image"`
	Stock         *int    `json:"stock"`
	IsFeatured    *bool   `json:"isFeatured"`
	IsPromo       *bool   `json:"isPromo"`
}

func (pc *ProductController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid product id")
	}

	var body productUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}

	product, err := pc.Catalog.UpdateProduct(c.Context(), uint(id), service.ProductUpdate{
		Name:          body.Name,
		Description:   body.Description,
		Price:         body.Price,
		DiscountPrice: body.DiscountPrice,
		CategoryID:    body.Category,
		Image:         body.Image,
		Stock:         body.Stock,
		IsFeatured:    body.IsFeatured,
		IsPromo:       body.IsPromo,
	}, middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"status": "success", "product": product})
}

func (pc *ProductController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid product id")
	}

	if err := pc.Catalog.DeleteProduct(c.Context(), uint(id)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Product deleted"})
}
