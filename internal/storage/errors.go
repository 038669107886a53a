package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate нарушено ограничение уникальности.
	ErrDuplicate = errors.New("duplicate")
	// ErrInUse запись нельзя удалить, на неё ссылаются другие записи.
	ErrInUse = errors.New("in use")
	// ErrInvalidReference запись ссылается на несуществующего члена клуба или активность.
	ErrInvalidReference = errors.New("invalid reference")
)
