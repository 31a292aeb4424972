// Package events publica eventos de dominio en RabbitMQ tras cada commit.
// Es opcional: sin AMQP_URL la aplicación funciona sin publicar nada.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/pkg/logger"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Exchange y routing keys de los eventos de inventario.
const (
	Exchange = "inventory.events"

	RoutingAllocationCommitted = "allocation.committed"
	RoutingLotReceived         = "lot.received"
	routingCategoryPrefix      = "category." // + created|updated|deleted
)

// Publisher publica eventos en un exchange topic. Los errores de publicación
// se registran y se descartan: la operación de negocio ya confirmó.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
}

// New conecta a RabbitMQ y declara el exchange.
func New(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	return &Publisher{conn: conn, channel: ch, log: log}, nil
}

// Close libera canal y conexión.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.channel.Close()
	_ = p.conn.Close()
}

// PublishAllocationCommitted publica el plan confirmado.
func (p *Publisher) PublishAllocationCommitted(ctx context.Context, plan *entity.AllocationPlan) {
	p.publish(ctx, RoutingAllocationCommitted, map[string]any{
		"plan_id":     plan.ID,
		"category_id": plan.CategoryID,
		"strategy":    plan.Strategy,
		"status":      plan.Status,
		"requested":   plan.Requested,
		"unfulfilled": plan.Unfulfilled,
		"entries":     plan.Entries,
	})
}

// PublishLotReceived publica la recepción de un lote.
func (p *Publisher) PublishLotReceived(ctx context.Context, lot *entity.Lot) {
	p.publish(ctx, RoutingLotReceived, map[string]any{
		"lot_id":      lot.ID,
		"category_id": lot.CategoryID,
		"quantity":    lot.QuantityOnHand,
		"received_at": lot.ReceivedAt,
		"expires_at":  lot.ExpiresAt,
	})
}

// PublishCategoryChanged publica un cambio de jerarquía (created/updated/deleted).
func (p *Publisher) PublishCategoryChanged(ctx context.Context, action, categoryID string) {
	p.publish(ctx, routingCategoryPrefix+action, map[string]any{
		"category_id": categoryID,
		"action":      action,
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, data any) {
	body, err := json.Marshal(map[string]any{
		"type": routingKey,
		"at":   time.Now().UTC(),
		"data": data,
	})
	if err != nil {
		return
	}
	err = p.channel.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error().Err(err).Str("routing_key", routingKey).Msg("publicar evento")
		return
	}
	p.log.Debug().Str("routing_key", routingKey).Msg("evento publicado")
}
