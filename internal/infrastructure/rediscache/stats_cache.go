// Package rediscache cachea los agregados por subárbol en Redis.
// Es opcional: sin REDIS_ADDR el agregador recalcula bajo demanda.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/pkg/logger"
)

var _ ports.StatsCache = (*StatsCache)(nil)

const (
	keyPrefix = "stats:"
	ttl       = 5 * time.Minute // respaldo ante invalidaciones perdidas
)

// StatsCache implementación de ports.StatsCache sobre Redis.
// Los fallos de Redis degradan a recalcular: nunca fallan la operación.
type StatsCache struct {
	rdb *redis.Client
	log *logger.Logger
}

// New construye la caché con un cliente ya conectado.
func New(rdb *redis.Client, log *logger.Logger) *StatsCache {
	return &StatsCache{rdb: rdb, log: log}
}

// Get devuelve los agregados cacheados de la categoría, si existen.
func (c *StatsCache) Get(ctx context.Context, categoryID string) (*dto.CategoryStatsResponse, bool) {
	raw, err := c.rdb.Get(ctx, keyPrefix+categoryID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("category_id", categoryID).Msg("stats cache get")
		}
		return nil, false
	}
	var stats dto.CategoryStatsResponse
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// Set guarda los agregados con TTL de respaldo.
func (c *StatsCache) Set(ctx context.Context, categoryID string, stats *dto.CategoryStatsResponse) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+categoryID, raw, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("category_id", categoryID).Msg("stats cache set")
	}
}

// Invalidate borra las entradas de las categorías dadas.
func (c *StatsCache) Invalidate(ctx context.Context, categoryIDs ...string) {
	if len(categoryIDs) == 0 {
		return
	}
	keys := make([]string, len(categoryIDs))
	for i, id := range categoryIDs {
		keys[i] = keyPrefix + id
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("stats cache invalidate")
	}
}
