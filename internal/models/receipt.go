package models

import (
	"encoding/json"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
)

// Типы оплаты квитанции.
const (
	PaymentPOS      = 1
	PaymentCash     = 2
	PaymentTransfer = 3
)

// PaymentTypeName возвращает название типа оплаты. Неизвестный тип считается наличными.
func PaymentTypeName(t int) string {
	switch t {
	case PaymentPOS:
		return "POS"
	case PaymentTransfer:
		return "Bonifico"
	default:
		return "Contanti"
	}
}

// Receipt квитанция за активность (ricevuta attività).
type Receipt struct {
	ID                 int         `json:"id"`
	AttivitaID         int         `json:"attivitaId" validate:"required,gt=0"`
	SocioID            int         `json:"socioId" validate:"required,gt=0"`
	ImportoRicevuta    int64       `json:"importoRicevuta" validate:"min=0"`
	ImportoIncassato   int64       `json:"importoIncassato" validate:"min=0"`
	TipologiaPagamento int         `json:"tipologiaPagamento" validate:"omitempty,oneof=1 2 3"`
	QuotaAss           int         `json:"quotaAss" validate:"oneof=0 1"`
	ScadenzaQuota      *dates.Date `json:"scadenzaQuota"`
	DataRicevuta       dates.Date  `json:"dataRicevuta" validate:"required"`
	ScadenzaPagamento  *dates.Date `json:"scadenzaPagamento"`
}

// UnmarshalJSON принимает также имя поля attivitàId.
func (r *Receipt) UnmarshalJSON(b []byte) error {
	type plain Receipt
	aux := struct {
		*plain
		AttivitaAccent int `json:"attivitàId"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if r.AttivitaID == 0 {
		r.AttivitaID = aux.AttivitaAccent
	}
	return nil
}

// ReceiptListItem строка списка квитанций с прогрессивным номером спортивного года.
type ReceiptListItem struct {
	Receipt
	Numero        int    `json:"numero"`
	Nome          string `json:"nome"`
	Cognome       string `json:"cognome"`
	CodiceFiscale string `json:"codiceFiscale"`
	NomeAttivita  string `json:"nomeAttivita"`
}

// ReceiptPrint данные для печатной формы квитанции.
type ReceiptPrint struct {
	ReceiptListItem
	NFattura           string      `json:"nFattura"`
	DataNascita        *dates.Date `json:"dataNascita"`
	ComuneNascita      string      `json:"comuneNascita"`
	ComuneResidenza    string      `json:"comuneResidenza"`
	ViaResidenza       string      `json:"viaResidenza"`
	CapResidenza       string      `json:"capResidenza"`
	TipoSocio          string      `json:"tipoSocio"`
	Pagato             float64     `json:"pagato"`
	Incassato          float64     `json:"incassato"`
	NumeroTessera      *string     `json:"numeroTessera"`
	TipologiaPagamento string      `json:"descrizionePagamento"`
}

// MemberCard карточка члена клуба со сводкой по квитанциям.
type MemberCard struct {
	Member
	AttivitaNome    *string `json:"attivitaNome"`
	NumeroRicevute  int     `json:"numeroRicevute"`
	TotaleIncassato float64 `json:"totaleIncassato"`
	TotaleRicevute  float64 `json:"totaleRicevute"`
}

// ReceiptFilter фильтр выборки квитанций по периоду и типу оплаты.
type ReceiptFilter struct {
	From        dates.Date
	To          dates.Date
	PaymentType int
}

// PaymentTotal итог по одному типу оплаты.
type PaymentTotal struct {
	Nome   string  `json:"nome"`
	Totale float64 `json:"totale"`
	Count  int     `json:"count"`
}

// Period границы выборки.
type Period struct {
	Inizio string `json:"inizio"`
	Fine   string `json:"fine"`
}

// ReceiptTypeFilter описание применённого фильтра типа оплаты.
type ReceiptTypeFilter struct {
	Tipo        *int   `json:"tipo"`
	Descrizione string `json:"descrizione"`
}

// ReceiptRange ответ выборки квитанций за период.
type ReceiptRange struct {
	Items          []ReceiptListItem    `json:"items"`
	TotaleGenerale float64              `json:"totaleGenerale"`
	TotaliPerTipo  map[int]PaymentTotal `json:"totaliPerTipo"`
	Periodo        Period               `json:"periodo"`
	Filtro         ReceiptTypeFilter    `json:"filtro"`
}

// CreatedReceipt ответ создания квитанции.
type CreatedReceipt struct {
	ID         int  `json:"id"`
	ReturnCode bool `json:"returnCode"`
	TestPrint  bool `json:"testPrint"`
}
