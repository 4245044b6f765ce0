package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo información de un error ya clasificado
type ErrorInfo struct {
	Code    string // código de error (ver codes.go)
	Message string // mensaje para el usuario
}

// ParseError clasifica un error y lo convierte en código + mensaje.
// Oculta los detalles internos pero da al usuario información accionable.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ocurrió un error en el servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. Errores básicos de GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Errores de PostgreSQL

	// 2-1. Violación de unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Violación de foreign key (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Violación de not null (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Falta un campo obligatorio",
		}
	}

	// 2-4. Violación de check constraint (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{
				Code:    ReviewInvalidRating,
				Message: "La puntuación debe estar entre 1 y 5",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Los datos enviados no son válidos",
		}
	}

	// 3. Errores de red/conexión
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "No se pudo conectar con un servicio externo. Inténtalo de nuevo más tarde",
		}
	}

	// 4. Error interno por defecto
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError clasifica violaciones de unicidad
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Email duplicado
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Ya existe un usuario con este correo electrónico",
		}
	}

	// Nombre de categoría duplicado
	if strings.Contains(errLower, "categories") || strings.Contains(errLower, "idx_categories_name") {
		return ErrorInfo{
			Code:    CategoryAlreadyExists,
			Message: "Ya existe una categoría con este nombre",
		}
	}

	// Un negocio por dueño
	if strings.Contains(errLower, "owner_id") || strings.Contains(errLower, "idx_businesses_owner_id") {
		return ErrorInfo{
			Code:    BusinessAlreadyExists,
			Message: "Ya tienes una empresa registrada",
		}
	}

	// Reseña duplicada
	if strings.Contains(errLower, "idx_business_user_review") {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "Ya has reseñado este negocio",
		}
	}

	// Día de horario duplicado
	if strings.Contains(errLower, "idx_business_weekday") {
		return ErrorInfo{
			Code:    ScheduleInvalidDay,
			Message: "El horario contiene días repetidos",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Ya existen estos datos",
	}
}

// parseForeignKeyError clasifica violaciones de claves foráneas
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "No se puede eliminar porque hay datos que dependen de este registro",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "El usuario no existe",
		}
	}
	if strings.Contains(errLower, "business_id") || strings.Contains(errLower, "fk_businesses") {
		return ErrorInfo{
			Code:    BusinessNotFound,
			Message: "El negocio no existe",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "No se encontraron los datos referenciados",
	}
}

// getNotFoundMessage mensaje de "no encontrado" según el contexto
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "business") || strings.Contains(contextLower, "negocio") {
		return "No se encontró el negocio"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "usuario") {
		return "No se encontró el usuario"
	}
	if strings.Contains(contextLower, "appointment") || strings.Contains(contextLower, "cita") {
		return "No se encontró la cita"
	}
	if strings.Contains(contextLower, "category") || strings.Contains(contextLower, "categoría") {
		return "No se encontró la categoría"
	}
	if strings.Contains(contextLower, "review") || strings.Contains(contextLower, "reseña") {
		return "No se encontró la reseña"
	}
	if strings.Contains(contextLower, "request") || strings.Contains(contextLower, "solicitud") {
		return "No se encontró la solicitud"
	}
	if strings.Contains(contextLower, "schedule") || strings.Contains(contextLower, "horario") {
		return "No se encontró el horario"
	}

	return "No se encontraron los datos solicitados"
}

// getDefaultErrorMessage mensaje genérico según el contexto
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "crear") {
		return "Ocurrió un error al registrar. Inténtalo de nuevo más tarde"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "actualizar") {
		return "Ocurrió un error al actualizar. Inténtalo de nuevo más tarde"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "eliminar") {
		return "Ocurrió un error al eliminar. Inténtalo de nuevo más tarde"
	}

	return "Ocurrió un error en el servidor. Inténtalo de nuevo más tarde"
}

// ParseAndRespond clasifica el error y envía la respuesta (helper para controllers)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
		Detail:  errorInfo.Message,
	})
}
