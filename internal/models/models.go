// Package models содержит доменные структуры сервиса оформления подписки:
// тарифы курса, отложенную покупку и запись об активной подписке пользователя.
package models

import "time"

// Tier описывает один тариф курса. Списки тарифов задаются статически
// при старте процесса (два набора — для внутреннего и международного рынка)
// и во время работы не изменяются.
type Tier struct {
	Name          string   `json:"name"`           // Название тарифа, одновременно идентификатор плана
	Price         string   `json:"price"`          // Отформатированная строка цены, например "₹999" или "$219"
	Frequency     string   `json:"frequency"`      // Периодичность списания: "/month", "one-time" и т.п.
	Features      []string `json:"features"`       // Список возможностей для отображения
	IsRecommended bool     `json:"is_recommended"` // Рекомендованный тариф
	ButtonText    string   `json:"button_text"`    // Текст кнопки call-to-action
}

// PendingPurchase хранит тариф, который посетитель попытался купить
// до прохождения аутентификации. Значение живет только пока открыто
// окно входа или выполняется отложенная попытка оплаты.
type PendingPurchase struct {
	Tier      Tier      `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionRecord — запись об оформленной подписке, хранится во внешнем
// документном хранилище по идентификатору пользователя.
type SubscriptionRecord struct {
	UserUID   string    `bson:"_id" json:"user_uid"`
	PlanName  string    `bson:"plan_name" json:"plan_name"`
	Status    string    `bson:"status" json:"status"`
	PeriodEnd time.Time `bson:"period_end" json:"period_end"`
	PaymentID string    `bson:"payment_id" json:"payment_id"`
	Frequency string    `bson:"frequency" json:"frequency"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// SubscriptionStatusActive статус оформленной подписки.
const SubscriptionStatusActive = "active"

// ActivatedEvent — событие об активации подписки, публикуется в очередь
// для воркера уведомлений.
type ActivatedEvent struct {
	EventID   string    `json:"event_id"`
	UserUID   string    `json:"user_uid"`
	Email     string    `json:"email"`
	PlanName  string    `json:"plan_name"`
	PeriodEnd time.Time `json:"period_end"`
	PaymentID string    `json:"payment_id"`
}

// RegionSelection — результат определения платежного региона посетителя.
// Resolved становится true после завершения геолокации (успешной или нет),
// после этого посетителю показывается ручной переключатель валюты.
type RegionSelection struct {
	Domestic bool `json:"domestic"`
	Resolved bool `json:"resolved"`
}
