package models

import (
	"encoding/json"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
)

// Membership абонемент (abbonamento) члена клуба на спортивный год.
type Membership struct {
	ID             int         `json:"id"`
	SocioID        int         `json:"socioId"`
	NumeroTessera  *string     `json:"numeroTessera"`
	DataIscrizione dates.Date  `json:"dataIscrizione"`
	DataScadenza   *dates.Date `json:"dataScadenza"`
	Firmato        bool        `json:"firmato"`
	AnnoSportivoID int         `json:"annoSportivoId"`
	AnnoSportivo   string      `json:"annoSportivo"`
	AttivitaID     int         `json:"attivitaId"`
	AttivitaNome   *string     `json:"attivitaNome"`
	Importo        int64       `json:"importo"`
	Attivo         bool        `json:"attivo"`
}

// MembershipRequest тело запроса создания/изменения абонемента.
// ID == 0 означает создание.
type MembershipRequest struct {
	ID             int        `json:"id" validate:"min=0"`
	SocioID        int        `json:"socioId" validate:"required,gt=0"`
	DataIscrizione dates.Date `json:"dataIscrizione" validate:"required"`
	AnnoSportivoID int        `json:"idAnno" validate:"min=0"`
	AttivitaID     int        `json:"attivitaId" validate:"min=0"`
	Firmato        bool       `json:"firmato"`
	NumeroTessera  string     `json:"numeroTessera" validate:"max=50"`
}

// UnmarshalJSON принимает также старые имена полей фронтенда.
func (r *MembershipRequest) UnmarshalJSON(b []byte) error {
	type plain MembershipRequest
	aux := struct {
		*plain
		IDAbbonamento   int         `json:"idAbbonamento"`
		IDSocio         int         `json:"idSocio"`
		AnnoSportivoID  int         `json:"annoSportivoId"`
		NumeroTessara   string      `json:"numeroTessara"`
		DateInscription *dates.Date `json:"dateInscription"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if r.ID == 0 {
		r.ID = aux.IDAbbonamento
	}
	if r.SocioID == 0 {
		r.SocioID = aux.IDSocio
	}
	if r.AnnoSportivoID == 0 {
		r.AnnoSportivoID = aux.AnnoSportivoID
	}
	if r.NumeroTessera == "" {
		r.NumeroTessera = aux.NumeroTessara
	}
	if r.DataIscrizione.IsZero() && aux.DateInscription != nil {
		r.DataIscrizione = *aux.DateInscription
	}
	return nil
}

// CardUpdate запрос смены номера карточки.
type CardUpdate struct {
	Tessera string `json:"tessera" validate:"max=50"`
	Extend  bool   `json:"extend"` // Разрешить дубликат номера
	Empty   bool   `json:"empty"`  // Очистить номер
}

// CardLookup абонемент, найденный по номеру карточки, с данными члена клуба.
type CardLookup struct {
	Membership
	Nome          string      `json:"nome"`
	Cognome       string      `json:"cognome"`
	CodiceFiscale string      `json:"codiceFiscale"`
	DataNascita   *dates.Date `json:"dataNascita"`
	Email         string      `json:"email"`
	Telefono      string      `json:"telefono"`
}

// Типы проверки номеров карточек.
const (
	CardCheckDuplicates = 0
	CardCheckMissing    = 1
	CardCheckFormat     = 2
)

// CardIssue найденная проблема с номером карточки.
type CardIssue struct {
	MembershipID  int     `json:"id,omitempty"`
	NumeroTessera *string `json:"numeroTessera,omitempty"`
	Nome          string  `json:"nome,omitempty"`
	Cognome       string  `json:"cognome,omitempty"`
	Attivita      string  `json:"attivita,omitempty"`
	Duplicates    int     `json:"duplicates,omitempty"`
	IDs           []int   `json:"abbonamentoIds,omitempty"`
}

// CardCheck результат проверки номеров карточек.
type CardCheck struct {
	Type        int         `json:"type"`
	Description string      `json:"description"`
	Issues      []CardIssue `json:"issues"`
	Count       int         `json:"count"`
}
