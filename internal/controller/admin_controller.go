// FILE: internal/controller/admin_controller.go
package controller

import (
	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/pkg/serverutils"
	"peerlearn-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Dashboard(ctx *fiber.Ctx) error
	Users(ctx *fiber.Ctx) error
	ModerateUser(ctx *fiber.Ctx) error
	ModerateReview(ctx *fiber.Ctx) error
	AuditLog(ctx *fiber.Ctx) error
	SystemLogs(ctx *fiber.Ctx) error
	SystemLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

// adminMiddleware enforces the admin role from JWT claims.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing or invalid authorization header"))
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return serverutils.JwtSecret(), nil
	})
	if err != nil || token == nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token claims"))
	}

	role, ok := claims["role"].(string)
	if !ok || role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: Admins only"))
	}

	if userId, exists := claims["user_id"]; exists {
		ctx.Locals("user_id", userId)
	}
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(c.adminMiddleware)

	h.Get("/dashboard", c.Dashboard)
	h.Get("/users", c.Users)
	h.Put("/users/:id/moderate", c.ModerateUser)
	h.Put("/reviews/:id/moderate", c.ModerateReview)
	h.Get("/audit-log", c.AuditLog)
	h.Get("/logs", c.SystemLogs)
	h.Get("/logs/:id", c.SystemLogDetail)
}

func (c *adminController) Dashboard(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetDashboard(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show dashboard", res))
}

func (c *adminController) Users(ctx *fiber.Ctx) error {
	res, err := c.adminService.ListUsers(ctx.Context(),
		ctx.QueryInt("limit", 25), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list users", res))
}

func (c *adminController) ModerateUser(ctx *fiber.Ctx) error {
	adminId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var req dto.AdminModerateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.ModerateUser(ctx.Context(), adminId, userId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success moderate user", nil))
}

func (c *adminController) ModerateReview(ctx *fiber.Ctx) error {
	adminId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	reviewId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid review id")
	}

	var req dto.AdminModerateReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.ModerateReview(ctx.Context(), adminId, reviewId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success moderate review", nil))
}

func (c *adminController) AuditLog(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetAuditLog(ctx.Context(),
		ctx.Query("category"), ctx.QueryInt("limit", 50), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show audit log", res))
}

func (c *adminController) SystemLogs(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetSystemLogs(
		ctx.Query("level"), ctx.QueryInt("limit", 100), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show system logs", res))
}

func (c *adminController) SystemLogDetail(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetSystemLog(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "log entry not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show log entry", res))
}
