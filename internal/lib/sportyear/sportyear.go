// Package sportyear считает границы спортивного года (сентябрь–август)
// и месяцы в порядке спортивного года с итальянскими названиями.
package sportyear

import (
	"fmt"
	"time"
)

// FirstMonth месяц, с которого начинается спортивный год.
const FirstMonth = time.September

// StartYearSQL выражение PostgreSQL, совпадающее со StartYear, для PARTITION BY.
// %s подставляется именем колонки с датой.
const StartYearSQL = `(CASE WHEN EXTRACT(MONTH FROM %[1]s) >= 9
	THEN EXTRACT(YEAR FROM %[1]s) ELSE EXTRACT(YEAR FROM %[1]s) - 1 END)::int`

// Month описывает месяц с названием и сокращением.
type Month struct {
	Number       int    `json:"mese"`
	Name         string `json:"nome"`
	Abbreviation string `json:"abbreviazione"`
}

var months = [12]Month{
	{1, "Gennaio", "Gen"},
	{2, "Febbraio", "Feb"},
	{3, "Marzo", "Mar"},
	{4, "Aprile", "Apr"},
	{5, "Maggio", "Mag"},
	{6, "Giugno", "Giu"},
	{7, "Luglio", "Lug"},
	{8, "Agosto", "Ago"},
	{9, "Settembre", "Set"},
	{10, "Ottobre", "Ott"},
	{11, "Novembre", "Nov"},
	{12, "Dicembre", "Dic"},
}

// StartYear возвращает календарный год, в котором начался спортивный год даты t.
func StartYear(t time.Time) int {
	if t.Month() >= FirstMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// Bounds возвращает первый и последний день спортивного года.
func Bounds(startYear int) (time.Time, time.Time) {
	from := time.Date(startYear, FirstMonth, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(startYear+1, FirstMonth, 0, 0, 0, 0, 0, time.UTC)
	return from, to
}

// Label возвращает подпись вида "2024/2025".
func Label(startYear int) string {
	return fmt.Sprintf("%d/%d", startYear, startYear+1)
}

// MonthName возвращает итальянское название месяца, пустую строку вне 1..12.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return months[m-1].Name
}

// Months возвращает двенадцать месяцев в порядке спортивного года: сентябрь первым.
func Months() []Month {
	out := make([]Month, 0, len(months))
	for i := range months {
		out = append(out, months[(int(FirstMonth)-1+i)%12])
	}
	return out
}

// Position возвращает индекс месяца внутри спортивного года: сентябрь 0, август 11.
func Position(m int) int {
	return (m - int(FirstMonth) + 12) % 12
}
