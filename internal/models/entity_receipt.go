package models

import "github.com/magabrotheeeer/club-manager/internal/lib/dates"

// EntityReceipt квитанция от учреждения (ente).
type EntityReceipt struct {
	ID           int        `json:"id"`
	DataRicevuta dates.Date `json:"dataRicevuta" validate:"required"`
	Ente         string     `json:"ente" validate:"required,min=1,max=255"`
	Importo      int64      `json:"importo" validate:"min=0"`
	Descrizione  string     `json:"descrizione" validate:"max=1000"`
}

// EntityReceiptList список квитанций учреждений с итогом.
type EntityReceiptList struct {
	Items          []EntityReceipt `json:"items"`
	TotaleGenerale float64         `json:"totaleGenerale"`
}

// Expense расход клуба, уходит в prima nota как USCITA.
type Expense struct {
	ID              int        `json:"id"`
	DataSpesa       dates.Date `json:"dataSpesa" validate:"required"`
	NumeroDocumento string     `json:"numeroDocumento" validate:"max=50"`
	Fornitore       string     `json:"fornitore" validate:"required,max=255"`
	Descrizione     string     `json:"descrizione" validate:"max=1000"`
	Categoria       string     `json:"categoria" validate:"max=100"`
	Importo         int64      `json:"importo" validate:"min=0"`
	TipoPagamento   int        `json:"tipoPagamento" validate:"omitempty,oneof=1 2 3"`
}

// DateRange необязательный период выборки.
type DateRange struct {
	From *dates.Date
	To   *dates.Date
}
