// Package repository содержит методы доступа к коллекции подписок.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/asanaflow/checkout-service/internal/models"
	"github.com/asanaflow/checkout-service/internal/storage"
)

const subscriptionsCollection = "subscriptions"

// ErrNotFound возвращается, когда записи о подписке у пользователя нет.
var ErrNotFound = errors.New("subscription not found")

// Subscriptions репозиторий записей о подписках.
type Subscriptions struct {
	col *mongo.Collection
}

// NewSubscriptions создает репозиторий поверх подключения к хранилищу.
func NewSubscriptions(st *storage.Storage) *Subscriptions {
	return &Subscriptions{col: st.DB.Collection(subscriptionsCollection)}
}

// Upsert записывает подписку по идентификатору пользователя со слиянием полей.
// updated_at проставляется сервером БД при каждой записи,
// created_at фиксируется только при первой вставке.
func (r *Subscriptions) Upsert(ctx context.Context, record models.SubscriptionRecord) error {
	const op = "repository.Upsert"

	filter := bson.M{"_id": record.UserUID}
	update := bson.M{
		"$set": bson.M{
			"plan_name":  record.PlanName,
			"status":     record.Status,
			"period_end": record.PeriodEnd,
			"payment_id": record.PaymentID,
			"frequency":  record.Frequency,
		},
		"$currentDate": bson.M{
			"updated_at": true,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
	}

	opts := options.UpdateOne().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Read возвращает запись о подписке пользователя.
func (r *Subscriptions) Read(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	const op = "repository.Read"

	var record models.SubscriptionRecord
	err := r.col.FindOne(ctx, bson.M{"_id": userUID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &record, nil
}
