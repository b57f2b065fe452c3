package paymentgateway

// CreateOrderRequest запрос на создание платежного ордера у шлюза.
// Сумма передается в минорных единицах валюты.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"required"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order ответ шлюза на создание ордера. Оплату по ордеру собирает
// собственный виджет шлюза на стороне посетителя.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
