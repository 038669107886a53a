// Package models содержит доменные структуры клуба: члены клуба, абонементы, квитанции,
// активности, prima nota и справочники. JSON-теги повторяют имена полей,
// которые ожидает фронтенд.
package models

import (
	"strings"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
)

// Member представляет члена клуба (socio).
type Member struct {
	ID                  int         `json:"id"`
	Nome                string      `json:"nome" validate:"required,max=255"`
	Cognome             string      `json:"cognome" validate:"required,max=255"`
	CodiceFiscale       string      `json:"codiceFiscale" validate:"required,len=16,codicefiscale"`
	Sesso               string      `json:"sesso,omitempty" validate:"omitempty,oneof=M F Maschio Femmina"`
	DataNascita         *dates.Date `json:"dataNascita" validate:"omitempty,notfuture"`
	ProvinciaNascita    string      `json:"provinciaNascita" validate:"max=255"`
	ComuneNascita       string      `json:"comuneNascita" validate:"max=255"`
	ProvinciaResidenza  string      `json:"provinciaResidenza" validate:"max=255"`
	ComuneResidenza     string      `json:"comuneResidenza" validate:"max=255"`
	ViaResidenza        string      `json:"viaResidenza" validate:"max=255"`
	CapResidenza        string      `json:"capResidenza" validate:"omitempty,cap"`
	Telefono            string      `json:"telefono" validate:"max=20"`
	Email               string      `json:"email" validate:"omitempty,mail,max=255"`
	ScadenzaCertificato *dates.Date `json:"scadenzaCertificato"`
	TipoSocio           int         `json:"tipoSocio" validate:"min=0"`
	IsAgonistico        int         `json:"isAgonistico" validate:"oneof=0 1"`
	Privacy             int         `json:"privacy" validate:"oneof=0 1"`
	DataPrivacy         *dates.Date `json:"dataPrivacy"`
	IsTesserato         int         `json:"isTesserato" validate:"oneof=0 1"`
	IsEffettivo         int         `json:"isEffettivo" validate:"oneof=0 1"`
	IsVolontario        int         `json:"isVolontario" validate:"oneof=0 1"`
	DataIscrizione      *dates.Date `json:"dataIscrizione"`
	IsScaduto           int         `json:"isScaduto" validate:"oneof=0 1"`
}

// Normalize приводит поля к каноническому виду перед валидацией.
func (m *Member) Normalize() {
	m.Nome = strings.TrimSpace(m.Nome)
	m.Cognome = strings.TrimSpace(m.Cognome)
	m.CodiceFiscale = strings.ToUpper(strings.TrimSpace(m.CodiceFiscale))
	m.Email = strings.TrimSpace(m.Email)
	if m.Sesso == "Maschio" {
		m.Sesso = "M"
	}
	if m.Sesso == "Femmina" {
		m.Sesso = "F"
	}
}

// MemberListItem строка списка членов клуба вместе с действующим абонементом.
type MemberListItem struct {
	Member
	NumeroTessera *string     `json:"numeroTessera"`
	DataScadenza  *dates.Date `json:"dataScadenza"`
	NomeAttivita  *string     `json:"nomeAttivita"`
	TipoSocioNome *string     `json:"tipoSocioNome"`
}

// MemberFilter фильтры списка членов клуба. Нулевые значения означают отсутствие фильтра.
type MemberFilter struct {
	Nome         string // Подстрока имени
	Cognome      string // Подстрока фамилии
	ExpiringIn   int    // Абонемент истекает в ближайшие N месяцев
	ActivityID   int    // Активность абонемента
	OnlyExpired  bool   // Только с истёкшим абонементом
	SportYearID  int    // Спортивный год абонемента
	RequireEmail bool   // Только с e-mail
}

// MemberContact краткие данные члена клуба для рассылки.
type MemberContact struct {
	ID            int         `json:"id"`
	Nome          string      `json:"nome"`
	Cognome       string      `json:"cognome"`
	Email         string      `json:"email"`
	NumeroTessera *string     `json:"numeroTessera"`
	DataScadenza  *dates.Date `json:"dataScadenza"`
}

// MemberType элемент справочника типов членов клуба.
type MemberType struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// MemberRef краткая ссылка на члена клуба, возвращается проверкой типа.
type MemberRef struct {
	ID      int    `json:"id"`
	Nome    string `json:"nome"`
	Cognome string `json:"cognome"`
}

// TypeCheck результат проверки существования члена клуба по коду и типу.
type TypeCheck struct {
	Exists bool       `json:"exists"`
	Data   *MemberRef `json:"data"`
}

// CertificateReminder сообщение о скором истечении медицинской справки.
type CertificateReminder struct {
	MemberID            int        `json:"memberId"`
	Nome                string     `json:"nome"`
	Cognome             string     `json:"cognome"`
	Email               string     `json:"email"`
	ScadenzaCertificato dates.Date `json:"scadenzaCertificato"`
}
