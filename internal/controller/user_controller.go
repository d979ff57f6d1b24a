package controller

import (
	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/pkg/serverutils"
	"peerlearn-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Me(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	AddSkill(ctx *fiber.Ctx) error
	RemoveSkill(ctx *fiber.Ctx) error
	SearchTutors(ctx *fiber.Ctx) error
	MyReviews(ctx *fiber.Ctx) error
	Achievements(ctx *fiber.Ctx) error
}

type userController struct {
	userService        service.IUserService
	reviewService      service.IReviewService
	achievementService service.IAchievementService
}

func NewUserController(userService service.IUserService, reviewService service.IReviewService, achievementService service.IAchievementService) IUserController {
	return &userController{
		userService:        userService,
		reviewService:      reviewService,
		achievementService: achievementService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/me", c.Me)
	h.Put("/me", c.UpdateProfile)
	h.Post("/me/skills", c.AddSkill)
	h.Delete("/me/skills/:id", c.RemoveSkill)
	h.Get("/tutors", c.SearchTutors)
	h.Get(":id", c.Show)
	h.Get(":id/reviews", c.MyReviews)
	h.Get(":id/achievements", c.Achievements)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.userService.GetProfile(ctx.Context(), userId, true)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update profile", res))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	res, err := c.userService.GetProfile(ctx.Context(), id, false)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show user", res))
}

func (c *userController) AddSkill(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AddSkillRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.AddSkill(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add skill", res))
}

func (c *userController) RemoveSkill(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	skillId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid skill id")
	}

	if err := c.userService.RemoveSkill(ctx.Context(), userId, skillId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove skill", nil))
}

func (c *userController) SearchTutors(ctx *fiber.Ctx) error {
	filter := service.TutorSearchFilter{
		Category: ctx.Query("category"),
		Skill:    ctx.Query("skill"),
		Limit:    ctx.QueryInt("limit", 20),
		Offset:   ctx.QueryInt("offset", 0),
	}

	res, err := c.userService.SearchTutors(ctx.Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search tutors", res))
}

func (c *userController) MyReviews(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	res, err := c.reviewService.GetReviewsForUser(ctx.Context(), id,
		ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list reviews", res))
}

func (c *userController) Achievements(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	res, err := c.achievementService.GetUserAchievements(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list achievements", res))
}
