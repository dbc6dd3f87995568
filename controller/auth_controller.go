package controller

import (
	"errors"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/penzolll/umi-kelontong-digital-siap/middleware"
	"github.com/penzolll/umi-kelontong-digital-siap/model"
)

const tokenTTL = 72 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthController struct {
	DB *gorm.DB
}

func userPayload(u *model.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		return respondError(c, 400, "Please provide name, email and password")
	}
	if !emailPattern.MatchString(body.Email) {
		return respondError(c, 400, "Please provide a valid email")
	}

	var existing model.User
	err := ac.DB.Where("email = ?", body.Email).First(&existing).Error
	if err == nil {
		return respondError(c, 400, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serviceError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return serviceError(c, err)
	}

	// Role is never taken from the request; admins are promoted in the
	// database, not through the API.
	user := model.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: string(hashed),
		Role:     model.RoleCustomer,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return serviceError(c, err)
	}

	token, err := middleware.SignToken(user.ID, user.Email, user.Role, tokenTTL)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"status": "success",
		"token":  token,
		"user":   userPayload(&user),
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return respondError(c, 400, "Please provide email and password")
	}

	var user model.User
	err := ac.DB.Where("email = ?", body.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, 401, "Invalid email or password")
	}
	if err != nil {
		return serviceError(c, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		return respondError(c, 401, "Invalid email or password")
	}

	token, err := middleware.SignToken(user.ID, user.Email, user.Role, tokenTTL)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"token":  token,
		"user":   userPayload(&user),
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return respondError(c, 401, "Authentication required. Please log in.")
	}

	var user model.User
	err := ac.DB.First(&user, *userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, 404, "User not found")
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"status": "success", "user": userPayload(&user)})
}
