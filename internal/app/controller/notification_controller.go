package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
	ws "github.com/servibook/servibook-backend/internal/websocket"
)

// NotificationController controlador de notificaciones
type NotificationController struct {
	service  service.NotificationService
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewNotificationController constructor del controlador de notificaciones
func NewNotificationController(svc service.NotificationService, hub *ws.Hub, allowedOrigins []string) *NotificationController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &NotificationController{
		service: svc,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return origins[r.Header.Get("Origin")]
			},
		},
	}
}

// GetNotifications lista paginada de notificaciones del usuario
// GET /api/v1/notifications?page=&page_size=&type=&is_read=
func (c *NotificationController) GetNotifications(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	var notifType *model.NotificationType
	if typeStr := ctx.Query("type"); typeStr != "" {
		t := model.NotificationType(typeStr)
		notifType = &t
	}

	var isRead *bool
	if isReadStr := ctx.Query("is_read"); isReadStr != "" {
		if isReadStr == "true" {
			t := true
			isRead = &t
		} else if isReadStr == "false" {
			f := false
			isRead = &f
		}
	}

	notifications, total, unreadCount, err := c.service.GetNotifications(
		userID.(uint),
		notifType,
		isRead,
		page,
		pageSize,
	)
	if err != nil {
		apperrors.InternalError(ctx, "No se pudieron cargar las notificaciones")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":         notifications,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"unread_count": unreadCount,
	})
}

// GetUnreadCount número de notificaciones sin leer
// GET /api/v1/notifications/unread-count
func (c *NotificationController) GetUnreadCount(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	count, err := c.service.GetUnreadCount(userID.(uint))
	if err != nil {
		apperrors.InternalError(ctx, "No se pudo obtener el número de notificaciones sin leer")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead marca una notificación como leída
// PATCH /api/v1/notifications/:id/read
func (c *NotificationController) MarkAsRead(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(ctx, apperrors.ValidationInvalidID, "El ID de la notificación no es válido")
		return
	}

	notification, err := c.service.MarkAsRead(uint(id), userID.(uint))
	if err != nil {
		if err == service.ErrNotificationNotYours {
			apperrors.Forbidden(ctx, "La notificación pertenece a otro usuario")
			return
		}
		apperrors.NotFound(ctx, apperrors.NotificationNotFound, "No se encontró la notificación")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notification": notification,
	})
}

// MarkAllAsRead marca todas las notificaciones del usuario como leídas
// PATCH /api/v1/notifications/read-all
func (c *NotificationController) MarkAllAsRead(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	if err := c.service.MarkAllAsRead(userID.(uint)); err != nil {
		apperrors.InternalError(ctx, "No se pudieron marcar las notificaciones como leídas")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Todas las notificaciones se marcaron como leídas",
	})
}

// DeleteNotification elimina una notificación
// DELETE /api/v1/notifications/:id
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(ctx, apperrors.ValidationInvalidID, "El ID de la notificación no es válido")
		return
	}

	if err := c.service.DeleteNotification(uint(id), userID.(uint)); err != nil {
		if err == service.ErrNotificationNotYours {
			apperrors.Forbidden(ctx, "La notificación pertenece a otro usuario")
			return
		}
		apperrors.NotFound(ctx, apperrors.NotificationNotFound, "No se encontró la notificación")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Notificación eliminada",
	})
}

// GetNotificationSettings preferencias de notificación del usuario
// GET /api/v1/notifications/settings
func (c *NotificationController) GetNotificationSettings(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	settings, err := c.service.GetNotificationSettings(userID.(uint))
	if err != nil {
		apperrors.InternalError(ctx, "No se pudieron cargar las preferencias de notificación")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateNotificationSettings modifica las preferencias de notificación
// PUT /api/v1/notifications/settings
func (c *NotificationController) UpdateNotificationSettings(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.UserIDKey)
	if !exists {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	var req service.UpdateNotificationSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(ctx, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	settings, err := c.service.UpdateNotificationSettings(userID.(uint), &req)
	if err != nil {
		apperrors.InternalError(ctx, "No se pudieron actualizar las preferencias de notificación")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// WebSocketHandler conexión WebSocket del feed de notificaciones
// GET /api/v1/notifications/ws
// El token llega como query param; no se registra en los logs
func (c *NotificationController) WebSocketHandler(ctx *gin.Context) {
	log := middleware.GetLoggerFromContext(ctx)

	// El middleware ya validó la autenticación
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		apperrors.Unauthorized(ctx, "Debes iniciar sesión")
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:    c.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
