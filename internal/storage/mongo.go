// Package storage реализует документное хранилище записей о подписках
// на основе MongoDB. Записи адресуются идентификатором пользователя,
// запись выполняется upsert-ом со слиянием полей.
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Storage инкапсулирует подключение к MongoDB.
type Storage struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// New подключается к MongoDB и проверяет соединение.
func New(ctx context.Context, connectionString, database string) (*Storage, error) {
	const op = "storage.New"

	client, err := mongo.Connect(options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		Client: client,
		DB:     client.Database(database),
	}, nil
}

// Close закрывает подключение к MongoDB.
func (s *Storage) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
