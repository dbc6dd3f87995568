package controller

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

type InventoryController struct {
	Inventory *service.Inventory
}

func (ic *InventoryController) Update(c *fiber.Ctx) error {
	var body struct {
		ProductID uint   `json:"productId"`
		Quantity  int    `json:"quantity"`
		Type      string `json:"type"`
		Notes     string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}
	if body.ProductID == 0 || body.Type == "" {
		return respondError(c, 400, "Product ID, quantity, and type are required")
	}

	product, err := ic.Inventory.AdjustStock(c.Context(), service.AdjustStockInput{
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
		Type:      body.Type,
		Notes:     body.Notes,
		ActorID:   middleware.UserID(c),
	})
	if err != nil {
		return serviceError(c, err)
	}

	var action string
	switch body.Type {
	case service.AdjustSet:
		action = "set to"
	default:
		action = body.Type + "ed"
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"product": product,
		"message": fmt.Sprintf("Product stock %s %d units", action, body.Quantity),
	})
}

func (ic *InventoryController) LowStock(c *fiber.Ctx) error {
	threshold, _ := strconv.Atoi(c.Query("threshold"))

	products, err := ic.Inventory.LowStock(c.Context(), threshold)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "products": products})
}

func (ic *InventoryController) History(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid product id")
	}

	product, entries, err := ic.Inventory.History(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":                "success",
		"product":               product,
		"inventoryTransactions": entries,
	})
}
