package controller

import (
	"notifhub-be/internal/dto"
	"notifhub-be/internal/pkg/serverutils"
	"notifhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	GetActivity(ctx *fiber.Ctx) error
	GetRoles(ctx *fiber.Ctx) error
	CheckPermission(ctx *fiber.Ctx) error
}

type userController struct {
	service     service.IUserService
	roleService service.IUserRoleService
}

func NewUserController(service service.IUserService, roleService service.IUserRoleService) IUserController {
	return &userController{
		service:     service,
		roleService: roleService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Get("/activity", c.GetActivity)
	h.Get("/roles", c.GetRoles)
	h.Get("/permissions/:permission", c.CheckPermission)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetProfile(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) GetActivity(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.GetActivity(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User activity", res))
}

// GetRoles returns the caller's own role assignments.
func (c *userController) GetRoles(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.roleService.GetUserRoles(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User roles", res))
}

// CheckPermission answers whether the caller holds a permission through any
// of their valid role assignments.
func (c *userController) CheckPermission(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	permission := ctx.Params("permission")

	granted, err := c.roleService.HasPermission(ctx.Context(), userId, permission)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Permission check", dto.PermissionCheckResponse{
		Permission: permission,
		Granted:    granted,
	}))
}
