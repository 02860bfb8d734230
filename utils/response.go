package utils

import "github.com/gofiber/fiber/v2"

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func Error(c *fiber.Ctx, status int, message string, detail string) error {
	body := fiber.Map{"message": message}
	if detail != "" {
		body["error"] = detail
	}
	return c.Status(status).JSON(body)
}
