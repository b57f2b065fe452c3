// Package period вычисляет дату окончания оплаченного периода по строке
// периодичности тарифа.
package period

import (
	"strings"
	"time"
)

// End возвращает дату окончания периода подписки от момента start.
// Если периодичность текстуально указывает на помесячное списание,
// период равен одному месяцу. Во всех остальных случаях, включая
// нераспознанную периодичность, берется шесть месяцев — это намеренно
// грубая эвристика продукта, а не настраиваемая таблица длительностей.
func End(start time.Time, frequency string) time.Time {
	if strings.Contains(strings.ToLower(frequency), "month") {
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 6, 0)
}
