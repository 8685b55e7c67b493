package controller

import (
	"os"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/pkg/serverutils"
	"notifhub-be/internal/service"
	internalWS "notifhub-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	UnreadCount(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	MarkAllRead(ctx *fiber.Ctx) error
	MarkDelivered(ctx *fiber.Ctx) error
	GetPreferences(ctx *fiber.Ctx) error
	UpdatePreference(ctx *fiber.Ctx) error
	Broadcast(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type notificationController struct {
	dispatchService   service.INotificationDispatchService
	queryService      service.INotificationQueryService
	preferenceService service.INotificationPreferenceService
	roleService       service.IUserRoleService
	hub               *internalWS.Hub
	logger            logger.ILogger
}

func NewNotificationController(
	dispatchService service.INotificationDispatchService,
	queryService service.INotificationQueryService,
	preferenceService service.INotificationPreferenceService,
	roleService service.IUserRoleService,
	hub *internalWS.Hub,
	log logger.ILogger,
) INotificationController {
	return &notificationController{
		dispatchService:   dispatchService,
		queryService:      queryService,
		preferenceService: preferenceService,
		roleService:       roleService,
		hub:               hub,
		logger:            log,
	}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notifications")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/send", c.Send)
	h.Get("/", c.List)
	h.Get("/unread-count", c.UnreadCount)
	h.Get("/stats", c.Stats)
	h.Get("/preferences", c.GetPreferences)
	h.Put("/preferences", c.UpdatePreference)
	h.Post("/broadcast", c.Broadcast)
	// Specific routes before :id so "read-all" never parses as an id.
	h.Patch("/read-all", c.MarkAllRead)
	h.Patch("/:id/read", c.MarkRead)
	h.Patch("/:id/delivered", c.MarkDelivered)

	// WebSocket authenticates its own handshake (query token), so it sits
	// outside the JWT group.
	r.Get("/ws", c.ServeWs)
}

func (c *notificationController) Send(ctx *fiber.Ctx) error {
	var req dto.SendNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	res, err := c.dispatchService.Send(ctx.Context(), &req)
	if err != nil {
		return err
	}

	// Partial delivery failure is reported in the payload, not as an HTTP error.
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	req := dto.ListNotificationsRequest{
		Status: ctx.Query("status"),
		Type:   ctx.Query("type"),
		Limit:  ctx.QueryInt("limit", 0),
		Offset: ctx.QueryInt("offset", 0),
	}

	res, err := c.queryService.List(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User notifications", res))
}

func (c *notificationController) UnreadCount(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.queryService.UnreadCount(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Unread count", res))
}

func (c *notificationController) Stats(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.queryService.Stats(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification stats", res))
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid notification ID"))
	}

	res, err := c.queryService.MarkRead(ctx.Context(), id, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification marked as read", res))
}

func (c *notificationController) MarkAllRead(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	updated, err := c.queryService.MarkAllRead(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("All notifications marked as read", map[string]int64{
		"updated": updated,
	}))
}

func (c *notificationController) MarkDelivered(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid notification ID"))
	}

	res, err := c.queryService.MarkDelivered(ctx.Context(), id, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification marked as delivered", res))
}

func (c *notificationController) GetPreferences(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.preferenceService.GetPreferences(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification preferences", res))
}

func (c *notificationController) UpdatePreference(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.NotificationPreferenceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.preferenceService.UpsertPreference(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Preference updated", res))
}

// Broadcast pushes a system-wide banner to every connected client. Nothing is
// persisted; offline users never see it.
func (c *notificationController) Broadcast(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	granted, err := c.roleService.HasPermission(ctx.Context(), userId, "notifications.broadcast")
	if err != nil {
		return err
	}
	if !granted {
		return apperror.Forbidden("Access denied")
	}

	type Request struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	var req Request
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if req.Title == "" || req.Message == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Title and Message are required"))
	}

	c.hub.Broadcast(map[string]interface{}{
		"title":   req.Title,
		"message": req.Message,
	})

	return ctx.JSON(serverutils.SuccessResponse[any]("Broadcast queued", nil))
}

// ServeWs handles websocket requests from the peer.
func (c *notificationController) ServeWs(ctx *fiber.Ctx) error {
	// 1. Get Token source
	// Priority 1: Query Param (Browser standard)
	tokenStr := ctx.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	// 2. Parse JWT with the same secret the auth middleware uses
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		c.logger.Warn("NotificationController", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	// 3. Extract UserID from Claim
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
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user ID format in token"))
	}

	// 4. Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("NotificationController", "Starting WebSocket session", map[string]interface{}{"user_id": userId})
			internalWS.ServeWs(c.hub, conn, userId)
			c.logger.Info("NotificationController", "WebSocket session ended", map[string]interface{}{"user_id": userId})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
