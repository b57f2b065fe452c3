// Package priceparse извлекает числовую сумму из отформатированной строки цены.
// Цены в каталоге заданы строками с символом валюты ("₹999", "$219", "₹4,999"),
// структурированного числа в данных нет.
package priceparse

import (
	"strings"
	"unicode"
)

// Amount возвращает первую непрерывную последовательность цифр строки цены
// как целое число. Символы валют и разделители тысяч отбрасываются.
// Если цифр в строке нет, возвращается 0 — вызывающая сторона обязана
// трактовать нулевую сумму как ошибку конфигурации и не начинать оплату.
func Amount(price string) int {
	cleaned := strings.NewReplacer("₹", "", "$", "", ",", "").Replace(price)

	start := -1
	for i, r := range cleaned {
		if unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			cleaned = cleaned[start:i]
			start = 0
			break
		}
	}
	if start == -1 {
		return 0
	}
	if start != 0 {
		cleaned = cleaned[start:]
	}

	amount := 0
	for _, r := range cleaned {
		amount = amount*10 + int(r-'0')
	}
	return amount
}

// IsInternational сообщает, относится ли цена к международному каталогу.
// Признаком служит символ доллара: шлюз такие тарифы не обслуживает.
func IsInternational(price string) bool {
	return strings.Contains(price, "$")
}
