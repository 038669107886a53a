package models

import "encoding/json"

// Activity спортивная активность с тарифом по умолчанию.
type Activity struct {
	ID             int    `json:"id" validate:"min=0"`
	Nome           string `json:"nome" validate:"required,max=255"`
	Codice         string `json:"codice" validate:"max=50"`
	FederazioneID  int    `json:"federazioneId" validate:"min=0"`
	SezioneID      int    `json:"sezioneId" validate:"min=0"`
	EmailReferente string `json:"emailReferente" validate:"omitempty,mail,max=255"`
	Importo        int64  `json:"importo" validate:"min=0"`
	Attiva         bool   `json:"attiva"`
}

// UnmarshalJSON принимает также имена полей description и familyId.
func (a *Activity) UnmarshalJSON(b []byte) error {
	type plain Activity
	aux := struct {
		*plain
		Description string `json:"description"`
		FamilyID    int    `json:"familyId"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if a.Nome == "" {
		a.Nome = aux.Description
	}
	if a.FederazioneID == 0 {
		a.FederazioneID = aux.FamilyID
	}
	return nil
}

// ActivityRequest тело POST /activities.
type ActivityRequest struct {
	Activity
	Attiva *bool `json:"attiva"`
}

// UnmarshalJSON разбирает активность и запоминает, было ли передано attiva.
func (r *ActivityRequest) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &r.Activity); err != nil {
		return err
	}
	var flags struct {
		Attiva *bool `json:"attiva"`
	}
	if err := json.Unmarshal(b, &flags); err != nil {
		return err
	}
	r.Attiva = flags.Attiva
	return nil
}

// Normalize возвращает активность для сохранения: отсутствующие sezioneId
// и attiva получают значения 1 и true.
func (r ActivityRequest) Normalize() Activity {
	a := r.Activity
	if a.SezioneID == 0 {
		a.SezioneID = 1
	}
	a.Attiva = r.Attiva == nil || *r.Attiva
	return a
}

// ActivityCode короткая запись активности для выпадающих списков.
type ActivityCode struct {
	ID     int    `json:"id"`
	Codice string `json:"codice"`
	Nome   string `json:"nome"`
}

// ActivityStats активность федерации со счётчиками.
type ActivityStats struct {
	Activity
	NumeroSoci     int `json:"numeroSoci"`
	NumeroRicevute int `json:"numeroRicevute"`
}

// Lookup элемент справочника федераций или секций.
type Lookup struct {
	ID   int    `json:"id"`
	Nome string `json:"nome" validate:"required,max=255"`
}
