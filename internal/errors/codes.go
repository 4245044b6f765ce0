package errors

// Códigos de error constantes
// Formato: CATEGORIA_DETALLE
// El frontend mapea estos códigos a mensajes propios

const (
	// ==================== Autenticación (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login requerido
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // email/contraseña incorrectos
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token caducado
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token inválido
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token revocado (logout)
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email duplicado

	// ==================== Autorización (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // sin permiso
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // sin información de rol
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // solo administradores
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // solo dueños

	// ==================== Validación (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // entrada inválida
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // ID inválido
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // formato inválido
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // fuera de rango
	ValidationRequired      = "VALIDATION_REQUIRED"       // campo obligatorio

	// ==================== Recursos (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // no existe
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // ya existe
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflicto

	// ==================== Negocios (BUSINESS_) ====================
	BusinessNotFound      = "BUSINESS_NOT_FOUND"       // negocio no existe
	BusinessAlreadyExists = "BUSINESS_ALREADY_EXISTS"  // el dueño ya tiene negocio
	BusinessNotPublished  = "BUSINESS_NOT_PUBLISHED"   // negocio en borrador
	BusinessScheduleRequired = "BUSINESS_SCHEDULE_REQUIRED" // publicar requiere horario

	// ==================== Horarios (SCHEDULE_) ====================
	ScheduleInvalidDay      = "SCHEDULE_INVALID_DAY"      // día mal definido
	ScheduleInvalidTime     = "SCHEDULE_INVALID_TIME"     // hora inválida
	ScheduleInvalidDuration = "SCHEDULE_INVALID_DURATION" // duración no positiva
	ScheduleInvalidCapacity = "SCHEDULE_INVALID_CAPACITY" // capacidad < 1
	ScheduleIncomplete      = "SCHEDULE_INCOMPLETE"       // faltan días

	// ==================== Citas (APPOINTMENT_) ====================
	AppointmentNotFound   = "APPOINTMENT_NOT_FOUND"  // cita no existe
	SlotUnavailable       = "SLOT_UNAVAILABLE"       // turno no disponible
	AppointmentCancelled  = "APPOINTMENT_CANCELLED"  // ya cancelada
	AppointmentNotYours   = "APPOINTMENT_NOT_YOURS"  // cita de otro usuario

	// ==================== Categorías (CATEGORY_) ====================
	CategoryNotFound      = "CATEGORY_NOT_FOUND"       // categoría no existe
	CategoryAlreadyExists = "CATEGORY_ALREADY_EXISTS"  // nombre duplicado

	// ==================== Solicitudes (REQUEST_) ====================
	RequestNotFound        = "REQUEST_NOT_FOUND"         // solicitud no existe
	RequestAlreadyPending  = "REQUEST_ALREADY_PENDING"   // ya hay una pendiente
	RequestAlreadyResolved = "REQUEST_ALREADY_RESOLVED"  // ya fue resuelta

	// ==================== Reseñas (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"       // reseña no existe
	ReviewInvalidRating = "REVIEW_INVALID_RATING"  // puntuación fuera de 1..5
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"  // ya reseñó este negocio

	// ==================== Notificaciones (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND" // notificación no existe

	// ==================== Errores internos (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // error del servidor
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // error de BD
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // error de API externa
)
