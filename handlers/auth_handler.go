package handlers

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req services.RegisterUserInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.svc.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Registration successful, check your email to verify your account", user)
}

func (h *AuthHandler) RegisterHost(c *fiber.Ctx) error {
	var req services.RegisterHostInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	host, err := h.svc.RegisterHost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Registration successful, check your email to verify your account", host)
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	if err := h.svc.VerifyEmail(c.UserContext(), c.Query("token")); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Email verified successfully", nil)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendVerification(kind models.PrincipalKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req emailRequest
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := h.svc.ResendVerification(c.UserContext(), kind, req.Email); err != nil {
			return respondError(c, err)
		}
		return utils.Success(c, fiber.StatusOK, "If the account exists, a verification email has been sent", nil)
	}
}

func (h *AuthHandler) Login(kind models.PrincipalKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.LoginInput
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		res, err := h.svc.Login(c.UserContext(), kind, req)
		if err != nil {
			return respondError(c, err)
		}
		return utils.Success(c, fiber.StatusOK, "Login successful", res)
	}
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	jti, exp := middleware.CurrentToken(c)
	if err := h.svc.Logout(c.UserContext(), *p, jti, exp); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, "Authenticated", middleware.CurrentPrincipal(c))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req services.ChangePasswordInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := h.svc.ChangePassword(c.UserContext(), *middleware.CurrentPrincipal(c), req); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) ForgotPassword(kind models.PrincipalKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.ForgotPasswordInput
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := h.svc.ForgotPassword(c.UserContext(), kind, req); err != nil {
			return respondError(c, err)
		}
		return utils.Success(c, fiber.StatusOK, "If the account exists, a reset link has been sent", nil)
	}
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req services.ResetPasswordInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := h.svc.ResetPassword(c.UserContext(), req); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Password reset successfully", nil)
}
