package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

type OrderController struct {
	Ledger *service.OrderLedger
}

type orderItemRequest struct {
	Product struct {
		ID uint `json:"id"`
	} `json:"product"`
	Quantity int `json:"quantity"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items"`
	CustomerName  string             `json:"customerName"`
	Address       string             `json:"address"`
	Phone         string             `json:"phone"`
	PaymentMethod string             `json:"paymentMethod"`
}

func (oc *OrderController) Create(c *fiber.Ctx) error {
	var body createOrderRequest
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}

	lines := make([]service.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		lines = append(lines, service.OrderLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	order, err := oc.Ledger.PlaceOrder(c.Context(), service.PlaceOrderInput{
		Lines:         lines,
		CustomerName:  body.CustomerName,
		Address:       body.Address,
		Phone:         body.Phone,
		PaymentMethod: body.PaymentMethod,
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"status":  "success",
		"order":   order,
		"message": "Order placed successfully",
	})
}

func (oc *OrderController) List(c *fiber.Ctx) error {
	if middleware.IsAdmin(c) {
		orders, err := oc.Ledger.ListAll(c.Context())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"status": "success", "orders": orders})
	}

	userID := middleware.UserID(c)
	if userID == nil {
		return respondError(c, 401, "Authentication required. Please log in.")
	}

	orders, err := oc.Ledger.ListByUser(c.Context(), *userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "orders": orders})
}

func (oc *OrderController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid order id")
	}

	order, err := oc.Ledger.GetOrder(c.Context(), uint(id), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "order": order})
}

func (oc *OrderController) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return respondError(c, 400, "Invalid order id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return respondError(c, 400, "Status is required")
	}

	order, err := oc.Ledger.UpdateStatus(c.Context(), uint(id), body.Status, middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "order": order})
}
