package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos de uso los
// envuelven con fmt.Errorf("%w: detalle") y los handlers los mapean a
// códigos HTTP con errors.Is.
var (
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrOutOfStock         = errors.New("producto agotado")
	ErrAlreadyDelivered   = errors.New("el pedido ya fue entregado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)
