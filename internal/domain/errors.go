package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrTaxpayerNotFound    = errors.New("contribuyente no encontrado")
	ErrTransactionNotFound = errors.New("transacción no encontrada")
	ErrRequestNotFound     = errors.New("solicitud no encontrada")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrRequestNotPending   = errors.New("la solicitud ya fue resuelta")
	ErrRequestPending      = errors.New("una solicitud pendiente no puede archivarse")
	ErrOutstandingDebt     = errors.New("el contribuyente mantiene deudas pendientes")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
)
