package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse estructura estándar de respuesta de error.
// Se incluye "detail" porque el frontend original lee ese campo.
type ErrorResponse struct {
	Error   string `json:"error"`   // código de error (para mapear en el frontend)
	Message string `json:"message"` // mensaje para el usuario
	Detail  string `json:"detail"`  // alias de message (compatibilidad con el frontend)
}

// RespondWithError helper de respuesta de error
// statusCode: código HTTP
// errorCode: constante de código de error (ver codes.go)
// message: mensaje que verá el usuario
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
		Detail:  message,
	})
}

// Respuestas abreviadas de uso frecuente

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Debes iniciar sesión"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "No tienes permiso para hacer esto"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Ocurrió un error en el servidor. Inténtalo de nuevo más tarde"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError error de validación con detalle por campo
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // mensaje por campo
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Los datos enviados no son válidos",
		Fields:  fields,
	})
}
