// Package pricing содержит статический каталог тарифов курса.
// Каталог определяется на старте процесса и во время работы не меняется;
// валидация данных при этом не выполняется — некорректная строка цены
// считается ошибкой конфигурации и перехватывается на этапе оформления.
package pricing

import "github.com/asanaflow/checkout-service/internal/models"

var domesticTiers = []models.Tier{
	{
		Name:      "Monthly Subscription",
		Price:     "₹999",
		Frequency: "/month",
		Features: []string{
			"Live weekly classes",
			"Full video library",
			"Community access",
			"Practice schedule",
		},
		ButtonText: "Start Monthly",
	},
	{
		Name:      "Full Course (6 Months)",
		Price:     "₹4,999",
		Frequency: "one-time",
		Features: []string{
			"Everything in Monthly",
			"Complete 6-month program",
			"Personal posture reviews",
			"Certificate of completion",
		},
		IsRecommended: true,
		ButtonText:    "Get Full Access",
	},
}

var internationalTiers = []models.Tier{
	{
		Name:      "Monthly Subscription",
		Price:     "$39",
		Frequency: "/month",
		Features: []string{
			"Live weekly classes",
			"Full video library",
			"Community access",
			"Practice schedule",
		},
		ButtonText: "Start Monthly",
	},
	{
		Name:      "Full Course (6 Months)",
		Price:     "$219",
		Frequency: "one-time",
		Features: []string{
			"Everything in Monthly",
			"Complete 6-month program",
			"Personal posture reviews",
			"Certificate of completion",
		},
		IsRecommended: true,
		ButtonText:    "Get Full Access",
	},
}

// ForRegion возвращает активный список тарифов для региона.
func ForRegion(domestic bool) []models.Tier {
	if domestic {
		return domesticTiers
	}
	return internationalTiers
}

// Find ищет тариф по названию в каталоге региона.
func Find(domestic bool, name string) (models.Tier, bool) {
	for _, t := range ForRegion(domestic) {
		if t.Name == name {
			return t, true
		}
	}
	return models.Tier{}, false
}
