// Package request разбирает параметры запросов API: идентификаторы из пути,
// периоды startDate/endDate и целые параметры строки запроса.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

var (
	// ErrInvalidID идентификатор в пути не является положительным числом.
	ErrInvalidID = errors.New("invalid id")
	// ErrMissingDates не передан обязательный период.
	ErrMissingDates = errors.New("startDate and endDate are required")
)

// ID возвращает положительный целый параметр пути.
func ID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, chi.URLParam(r, name))
	}
	return id, nil
}

// Int возвращает целый параметр пути, допускается ноль.
func Int(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, chi.URLParam(r, name))
	}
	return v, nil
}

// QueryInt возвращает целый параметр строки запроса или ноль, если его нет.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// DateRange разбирает необязательный период startDate/endDate.
func DateRange(r *http.Request) (models.DateRange, error) {
	var dr models.DateRange
	q := r.URL.Query()
	if raw := q.Get("startDate"); raw != "" {
		t, err := dates.Parse(raw)
		if err != nil {
			return dr, err
		}
		dr.From = dates.Ptr(t)
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := dates.Parse(raw)
		if err != nil {
			return dr, err
		}
		dr.To = dates.Ptr(t)
	}
	return dr, nil
}

// RequiredDateRange как DateRange, но обе даты обязательны.
func RequiredDateRange(r *http.Request) (dates.Date, dates.Date, error) {
	dr, err := DateRange(r)
	if err != nil {
		return dates.Date{}, dates.Date{}, err
	}
	if dr.From == nil || dr.To == nil {
		return dates.Date{}, dates.Date{}, ErrMissingDates
	}
	return *dr.From, *dr.To, nil
}
