// Package money переводит суммы из целых центов (хранение) в евро (отображение).
// Вся арифметика идёт через decimal, чтобы не терять центы на float.
package money

import "github.com/shopspring/decimal"

// Euro возвращает сумму в евро для JSON-ответов.
func Euro(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// String возвращает сумму в евро с двумя знаками: "12.50".
func String(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Format возвращает модуль суммы для печати: "€ 12.50".
func Format(cents int64) string {
	if cents < 0 {
		cents = -cents
	}
	return "€ " + String(cents)
}
