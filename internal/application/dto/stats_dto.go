package dto

import "github.com/shopspring/decimal"

// CategoryStatsResponse agregados del subárbol de una categoría:
// lotes, cantidad total y valor total (cantidad × costo unitario).
type CategoryStatsResponse struct {
	CategoryID    string          `json:"category_id"`
	LotCount      int             `json:"lot_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// CategoryReportRow fila del reporte de inventario por categoría (preorden).
type CategoryReportRow struct {
	CategoryID        string          `json:"category_id"`
	Name              string          `json:"name"`
	Level             int             `json:"level"`
	EffectiveStrategy string          `json:"effective_strategy"`
	LotCount          int             `json:"lot_count"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	TotalValue        decimal.Decimal `json:"total_value"`
}
