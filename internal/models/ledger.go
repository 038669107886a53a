package models

import "github.com/magabrotheeeer/club-manager/internal/lib/dates"

// Тип движения prima nota.
const (
	MovementIncome  = "ENTRATA"
	MovementExpense = "USCITA"
)

// Тип выборки prima nota.
const (
	LedgerAll      = 0
	LedgerIncome   = 1
	LedgerExpenses = 2
)

// Movement строка prima nota. Importo со знаком: расход отрицательный.
type Movement struct {
	ID               int        `json:"id"`
	Data             dates.Date `json:"data"`
	Numero           int        `json:"numero"`
	Tipo             string     `json:"tipo"`
	Descrizione      string     `json:"descrizione"`
	Controparte      string     `json:"controparte"`
	Categoria        string     `json:"categoria"`
	TipoPagamento    string     `json:"tipoPagamento"`
	Importo          int64      `json:"importo"`
	SaldoProgressivo int64      `json:"saldoProgressivo"`
}

// LedgerSummary итоги prima nota.
type LedgerSummary struct {
	TotaleEntrate   float64 `json:"totaleEntrate"`
	TotaleUscite    float64 `json:"totaleUscite"`
	Saldo           float64 `json:"saldo"`
	NumeroMovimenti int     `json:"numeroMovimenti"`
	Periodo         Period  `json:"periodo"`
	Tipo            int     `json:"tipo"`
}

// Ledger ответ prima nota.
type Ledger struct {
	Movimenti []Movement    `json:"movimenti"`
	Riepilogo LedgerSummary `json:"riepilogo"`
}

// PrintHeader шапка печатной формы.
type PrintHeader struct {
	Titolo      string `json:"titolo"`
	Sottotitolo string `json:"sottotitolo"`
	Periodo     string `json:"periodo"`
	DataStampa  string `json:"dataStampa"`
}

// FormattedMovement строка prima nota, готовая к печати.
type FormattedMovement struct {
	Data             string `json:"data"`
	Numero           int    `json:"numero"`
	Tipo             string `json:"tipo"`
	Descrizione      string `json:"descrizione"`
	Controparte      string `json:"controparte"`
	Segno            string `json:"segno"`
	Importo          string `json:"importo"`
	SaldoProgressivo string `json:"saldoProgressivo"`
}

// LedgerPrint данные печатной формы prima nota.
type LedgerPrint struct {
	Ledger
	Intestazione        PrintHeader         `json:"intestazione"`
	MovimentiFormattati []FormattedMovement `json:"movimentiFormattati"`
}

// MonthTotal итог за месяц спортивного года.
type MonthTotal struct {
	Mese   int     `json:"mese"`
	Nome   string  `json:"nome"`
	Anno   int     `json:"anno"`
	Totale float64 `json:"totale"`
	Count  int     `json:"count"`
}

// ActivityTotal итог по активности.
type ActivityTotal struct {
	AttivitaID int     `json:"attivitaId"`
	Nome       string  `json:"nome"`
	Totale     float64 `json:"totale"`
	Count      int     `json:"count"`
}

// MonthlyStats статистика по месяцам текущего спортивного года.
type MonthlyStats struct {
	AnnoSportivo   string          `json:"annoSportivo"`
	Mensile        []MonthTotal    `json:"mensile"`
	CategorieStats []ActivityTotal `json:"categorieStats"`
	TotaleEntrate  float64         `json:"totaleEntrate"`
	TotaleUscite   float64         `json:"totaleUscite"`
}

// ActivityStatsReport статистика по активностям.
type ActivityStatsReport struct {
	PerAttivita []ActivityTotal `json:"perAttivita"`
}

// TrendReport тренд за последние двенадцать месяцев.
type TrendReport struct {
	TrendMensile []MonthTotal `json:"trendMensile"`
}

// MonthAmount сырая строка агрегации по месяцу из базы.
type MonthAmount struct {
	Year   int
	Month  int
	Amount int64
	Count  int
}

// ActivityAmount сырая строка агрегации по активности из базы.
type ActivityAmount struct {
	ActivityID int
	Name       string
	Amount     int64
	Count      int
}
