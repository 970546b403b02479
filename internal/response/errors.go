package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidTurno   ErrCode = "INVALID_TURNO"
	ErrQueryRequired  ErrCode = "QUERY_REQUIRED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrDuplicateKey ErrCode = "DUPLICATE_KEY"

	// ─── Import ────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrUnreadableFile  ErrCode = "UNREADABLE_FILE"
	ErrImportEmpty     ErrCode = "IMPORT_EMPTY"

	// ─── Audit ─────────────────────────────────────────────────────────
	ErrAuditWrite ErrCode = "AUDIT_WRITE_FAILED"

	// ─── Sessions ──────────────────────────────────────────────────────
	ErrClientIDRequired ErrCode = "CLIENT_ID_REQUIRED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validación fallida. Revise los campos enviados."
	case ErrInvalidID:
		return "El formato del ID no es válido."
	case ErrInvalidPayload:
		return "El cuerpo de la solicitud no es válido."
	case ErrInvalidTurno:
		return "El turno no es válido. Use MAÑANA, MEDIO DIA, TARDE o NOCHE."
	case ErrQueryRequired:
		return "Debe indicar un término de búsqueda."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Registro no encontrado."
	case ErrDuplicateKey:
		return "Ya existe un registro con el mismo grupo, aula y horario."

	// ─── Import ────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "Debe adjuntar un archivo en el campo 'file'."
	case ErrUnsupportedFile:
		return "Tipo de archivo no soportado. Solo se aceptan .xlsx y .xlsm."
	case ErrFileTooLarge:
		return "El archivo excede el tamaño máximo permitido."
	case ErrUnreadableFile:
		return "El archivo no es un reporte LISTADO GENERAL POR GRUPOS válido."
	case ErrImportEmpty:
		return "No se encontraron registros válidos en el archivo."

	// ─── Audit ─────────────────────────────────────────────────────────
	case ErrAuditWrite:
		return "No se pudo registrar la auditoría. La operación fue revertida."

	// ─── Sessions ──────────────────────────────────────────────────────
	case ErrClientIDRequired:
		return "El encabezado X-Client-Id es requerido."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intente nuevamente en unos minutos."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
