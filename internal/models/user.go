package models

import "time"

// User учётная запись оператора клуба.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или operator
	CreatedAt    time.Time // Дата создания
}

// LoginRequest тело запроса входа.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}
