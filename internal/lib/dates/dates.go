// Package dates содержит тип Date для дат без времени и разбор форматов,
// которые присылает фронтенд: DD-MM-YYYY, YYYY-MM-DD и ISO 8601 с временем.
package dates

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutDMY формат дат в параметрах запросов.
	LayoutDMY = "02-01-2006"
	// LayoutISO формат дат в ответах и в базе.
	LayoutISO = "2006-01-02"
	// LayoutPrint формат дат для печатных форм.
	LayoutPrint = "02/01/2006"
)

// ErrInvalidDate возвращается, если строку не удалось разобрать ни в одном формате.
var ErrInvalidDate = errors.New("invalid date")

// Parse разбирает дату. Строки с 'T' считаются ISO 8601 с временем,
// остальные пробуются как DD-MM-YYYY и YYYY-MM-DD.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if strings.Contains(s, "T") {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", s)
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
		}
		return Truncate(t), nil
	}
	for _, layout := range []string{LayoutDMY, LayoutISO} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
}

// Truncate отбрасывает время, оставляя календарную дату в UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date календарная дата. Пустое значение сериализуется в null.
type Date struct {
	time.Time
}

// New создаёт Date из time.Time.
func New(t time.Time) Date {
	return Date{Time: Truncate(t)}
}

// Ptr возвращает указатель на Date, удобно для необязательных полей.
func Ptr(t time.Time) *Date {
	d := New(t)
	return &d
}

// MustParse разбирает дату и паникует при ошибке. Только для тестов и констант.
func MustParse(s string) Date {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return Date{Time: t}
}

// String возвращает дату в формате YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(LayoutISO)
}

// DMY возвращает дату в формате DD-MM-YYYY.
func (d Date) DMY() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(LayoutDMY)
}

// MarshalJSON реализует json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(LayoutISO))
}

// UnmarshalJSON реализует json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Value реализует driver.Valuer, нулевая дата пишется как NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan реализует sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = New(v)
	case string:
		t, err := Parse(v)
		if err != nil {
			return err
		}
		d.Time = t
	case []byte:
		t, err := Parse(string(v))
		if err != nil {
			return err
		}
		d.Time = t
	default:
		return fmt.Errorf("dates.Scan: unsupported type %T", src)
	}
	return nil
}
