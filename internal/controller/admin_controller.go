package controller

import (
	"os"
	"strconv"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/pkg/serverutils"
	"notifhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)

	// Role Management
	CreateRole(ctx *fiber.Ctx) error
	GetRoles(ctx *fiber.Ctx) error
	GetRole(ctx *fiber.Ctx) error
	UpdateRole(ctx *fiber.Ctx) error
	DeleteRole(ctx *fiber.Ctx) error

	// Assignment Management
	AssignRole(ctx *fiber.Ctx) error
	RevokeRole(ctx *fiber.Ctx) error
	GetUserRoles(ctx *fiber.Ctx) error

	// Maintenance
	CleanupNotifications(ctx *fiber.Ctx) error

	// Logs
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	roleService        service.IUserRoleService
	maintenanceService service.INotificationMaintenanceService
	logger             logger.ILogger
}

func NewAdminController(roleService service.IUserRoleService, maintenanceService service.INotificationMaintenanceService, log logger.ILogger) IAdminController {
	return &adminController{
		roleService:        roleService,
		maintenanceService: maintenanceService,
		logger:             log,
	}
}

// adminMiddleware authenticates the token and then checks the live
// "admin.access" permission. A role revoked after token issuance locks the
// holder out immediately; the JWT role claim is informational only.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing or invalid authorization header"))
	}
	tokenStr := authHeader[7:]

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token claims"))
	}

	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Token missing user_id"))
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user ID in token"))
	}

	granted, err := c.roleService.HasPermission(ctx.Context(), userId, "admin.access")
	if err != nil {
		return err
	}
	if !granted {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: Admins only"))
	}

	ctx.Locals("user_id", userIdStr)
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(c.adminMiddleware)

	// Role Management
	h.Post("/roles", c.CreateRole)
	h.Get("/roles", c.GetRoles)
	h.Get("/roles/:id", c.GetRole)
	h.Put("/roles/:id", c.UpdateRole)
	h.Delete("/roles/:id", c.DeleteRole)

	// Assignment Management
	h.Post("/users/:id/roles", c.AssignRole)
	h.Delete("/users/:id/roles/:roleId", c.RevokeRole)
	h.Get("/users/:id/roles", c.GetUserRoles)

	// Maintenance
	h.Post("/notifications/cleanup", c.CleanupNotifications)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) CreateRole(ctx *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.roleService.CreateRole(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Role created", res))
}

func (c *adminController) GetRoles(ctx *fiber.Ctx) error {
	res, err := c.roleService.GetRoles(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Roles", res))
}

func (c *adminController) GetRole(ctx *fiber.Ctx) error {
	roleId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid role ID"))
	}

	res, err := c.roleService.GetRole(ctx.Context(), roleId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Role detail", res))
}

func (c *adminController) UpdateRole(ctx *fiber.Ctx) error {
	roleId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid role ID"))
	}

	var req dto.UpdateRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.roleService.UpdateRole(ctx.Context(), roleId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Role updated", res))
}

func (c *adminController) DeleteRole(ctx *fiber.Ctx) error {
	roleId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid role ID"))
	}

	if err := c.roleService.DeleteRole(ctx.Context(), roleId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Role deleted", nil))
}

func (c *adminController) AssignRole(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid user ID"))
	}

	var req dto.AssignRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	assignedByStr := ctx.Locals("user_id").(string)
	assignedBy, _ := uuid.Parse(assignedByStr)

	res, err := c.roleService.AssignRole(ctx.Context(), userId, &req, assignedBy)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Role assigned", res))
}

func (c *adminController) RevokeRole(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid user ID"))
	}
	roleId, err := uuid.Parse(ctx.Params("roleId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid role ID"))
	}

	if err := c.roleService.RevokeRole(ctx.Context(), userId, roleId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Role assignment revoked", nil))
}

func (c *adminController) GetUserRoles(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid user ID"))
	}

	res, err := c.roleService.GetUserRoles(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User roles", res))
}

func (c *adminController) CleanupNotifications(ctx *fiber.Ctx) error {
	var req dto.CleanupNotificationsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	res, err := c.maintenanceService.Cleanup(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cleanup finished", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	level := ctx.Query("level", "")

	if page < 1 {
		page = 1
	}

	logs, err := c.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // Log ID is a string (MD5 hash), not UUID

	l, err := c.logger.GetLogById(logId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}
