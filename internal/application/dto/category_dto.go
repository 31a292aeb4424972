package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest alta de categoría. RemovalStrategy vacía hereda.
type CreateCategoryRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=120"`
	ParentID        string `json:"parent_id" validate:"omitempty,max=64"`
	RemovalStrategy string `json:"removal_strategy" validate:"omitempty,oneof=FIFO LIFO FEFO"`
}

// UpdateCategoryRequest patch de categoría; solo los campos presentes se tocan.
// ParentID "" reparenta a raíz; RemovalStrategy "" vuelve a heredar.
type UpdateCategoryRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=120"`
	ParentID        *string `json:"parent_id"`
	RemovalStrategy *string `json:"removal_strategy" validate:"omitempty,oneof=FIFO LIFO FEFO"`
}

// CategoryResponse categoría con su estrategia efectiva resuelta.
type CategoryResponse struct {
	ID                string    `json:"id"`
	ParentID          string    `json:"parent_id,omitempty"`
	Name              string    `json:"name"`
	RemovalStrategy   string    `json:"removal_strategy,omitempty"`
	EffectiveStrategy string    `json:"effective_strategy"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HierarchyNodeResponse fila del árbol aplanado en preorden (consumo tipo
// tabla): nivel de anidación más los conteos del subárbol.
type HierarchyNodeResponse struct {
	ID                string          `json:"id"`
	ParentID          string          `json:"parent_id,omitempty"`
	Name              string          `json:"name"`
	Level             int             `json:"level"`
	EffectiveStrategy string          `json:"effective_strategy"`
	LotCount          int             `json:"lot_count"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
}

// HierarchyResponse árbol completo aplanado más los padres inexistentes
// detectados (tratados como raíz, nunca corregidos en silencio).
type HierarchyResponse struct {
	Nodes    []HierarchyNodeResponse `json:"nodes"`
	Dangling []string                `json:"dangling,omitempty"`
}
