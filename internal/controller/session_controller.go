// FILE: internal/controller/session_controller.go
package controller

import (
	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/pkg/serverutils"
	"peerlearn-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Request(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Request)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/confirm", c.Confirm)
	h.Post(":id/start", c.Start)
	h.Post(":id/complete", c.Complete)
	h.Post(":id/cancel", c.Cancel)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}
	return userId, nil
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

func (c *sessionController) Request(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.RequestSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.RequestSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success request session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	filter := service.SessionListFilter{
		Role:     ctx.Query("role"),
		Status:   ctx.Query("status"),
		Category: ctx.Query("category"),
		Upcoming: ctx.QueryBool("upcoming"),
		Limit:    ctx.QueryInt("limit", 20),
		Offset:   ctx.QueryInt("offset", 0),
	}

	res, err := c.sessionService.ListSessions(ctx.Context(), userId, filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.GetSession(ctx.Context(), id, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Confirm(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.ConfirmSession(ctx.Context(), id, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success confirm session", res))
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.StartSession(ctx.Context(), id, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *sessionController) Complete(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	// Body is optional; defaults apply when omitted.
	var req dto.CompleteSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
	}

	res, err := c.sessionService.CompleteSession(ctx.Context(), id, userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success complete session", res))
}

func (c *sessionController) Cancel(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CancelSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CancelSession(ctx.Context(), id, userId, req.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success cancel session", res))
}
