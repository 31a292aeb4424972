package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrCycleDetected          = errors.New("ciclo detectado en la jerarquía de categorías")
	ErrDanglingParent         = errors.New("categoría padre inexistente")
	ErrHasChildren            = errors.New("la categoría tiene subcategorías")
	ErrHasLots                = errors.New("la categoría tiene lotes asociados")
	ErrExpiryRequired         = errors.New("lote sin fecha de vencimiento bajo estrategia FEFO")
	ErrNotLeafCategory        = errors.New("los lotes solo pueden asociarse a categorías hoja")
	ErrProtectedCategory      = errors.New("la categoría reservada no puede modificarse")
	ErrConcurrentModification = errors.New("modificación concurrente: reintentos agotados")
)
