package routes

import (
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/models"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, auth *middleware.Auth, h *handlers.AuthHandler) {
	r := api.Group("/auth")

	r.Post("/users/register", h.RegisterUser)
	r.Post("/users/login", h.Login(models.KindUser))
	r.Post("/users/resend-verification", h.ResendVerification(models.KindUser))
	r.Post("/users/forgot-password", h.ForgotPassword(models.KindUser))

	r.Post("/hosts/register", h.RegisterHost)
	r.Post("/hosts/login", h.Login(models.KindHost))
	r.Post("/hosts/resend-verification", h.ResendVerification(models.KindHost))
	r.Post("/hosts/forgot-password", h.ForgotPassword(models.KindHost))

	r.Post("/admin/login", h.Login(models.KindAdmin))

	r.Get("/verify-email", h.VerifyEmail)
	r.Post("/reset-password", h.ResetPassword)

	r.Get("/me", with(auth.Protected(), h.Me)...)
	r.Post("/logout", with(auth.Protected(), h.Logout)...)
	r.Post("/change-password", with(auth.Protected(), h.ChangePassword)...)
}
