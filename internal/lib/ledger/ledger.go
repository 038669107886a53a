// Package ledger содержит агрегации над уже выбранными строками:
// итоги квитанций по типам оплаты, движения prima nota с нарастающим сальдо,
// помесячные ряды спортивного года и печатное представление.
package ledger

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/lib/money"
	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// TypeTotal итог в центах по одному типу оплаты.
type TypeTotal struct {
	Cents int64
	Count int
}

// Totals итоги квитанций в центах.
type Totals struct {
	PerType map[int]TypeTotal
	Grand   int64
}

// SumByPaymentType за один проход группирует квитанции по типу оплаты.
// Тип вне 1..3 учитывается как наличные.
func SumByPaymentType(items []models.ReceiptListItem) Totals {
	t := Totals{PerType: map[int]TypeTotal{
		models.PaymentPOS:      {},
		models.PaymentCash:     {},
		models.PaymentTransfer: {},
	}}
	for _, it := range items {
		pt := it.TipologiaPagamento
		if pt < models.PaymentPOS || pt > models.PaymentTransfer {
			pt = models.PaymentCash
		}
		cur := t.PerType[pt]
		cur.Cents += it.ImportoRicevuta
		cur.Count++
		t.PerType[pt] = cur
		t.Grand += it.ImportoRicevuta
	}
	return t
}

// ReceiptRange собирает ответ выборки квитанций за период.
func ReceiptRange(items []models.ReceiptListItem, f models.ReceiptFilter) models.ReceiptRange {
	if items == nil {
		items = []models.ReceiptListItem{}
	}
	totals := SumByPaymentType(items)

	perType := make(map[int]models.PaymentTotal, len(totals.PerType))
	for pt, tt := range totals.PerType {
		perType[pt] = models.PaymentTotal{
			Nome:   models.PaymentTypeName(pt),
			Totale: money.Euro(tt.Cents),
			Count:  tt.Count,
		}
	}

	filter := models.ReceiptTypeFilter{Descrizione: "Tutti"}
	if f.PaymentType > 0 {
		pt := f.PaymentType
		filter.Tipo = &pt
		filter.Descrizione = models.PaymentTypeName(pt)
	}

	return models.ReceiptRange{
		Items:          items,
		TotaleGenerale: money.Euro(totals.Grand),
		TotaliPerTipo:  perType,
		Periodo:        models.Period{Inizio: f.From.String(), Fine: f.To.String()},
		Filtro:         filter,
	}
}

// Merge объединяет поступления и расходы в хронологическом порядке
// (дата, затем номер) и проставляет нарастающее сальдо.
func Merge(income, expenses []models.Movement) []models.Movement {
	out := make([]models.Movement, 0, len(income)+len(expenses))
	out = append(out, income...)
	out = append(out, expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Data.Equal(out[j].Data.Time) {
			return out[i].Data.Before(out[j].Data.Time)
		}
		if out[i].Numero != out[j].Numero {
			return out[i].Numero < out[j].Numero
		}
		return out[i].Tipo < out[j].Tipo
	})
	RunningBalance(out)
	return out
}

// RunningBalance проставляет saldoProgressivo в порядке следования строк.
func RunningBalance(ms []models.Movement) {
	var saldo int64
	for i := range ms {
		saldo += ms[i].Importo
		ms[i].SaldoProgressivo = saldo
	}
}

// Summary считает итоги prima nota.
func Summary(ms []models.Movement, kind int, r models.DateRange) models.LedgerSummary {
	var in, out int64
	for _, m := range ms {
		if m.Importo >= 0 {
			in += m.Importo
		} else {
			out -= m.Importo
		}
	}
	return models.LedgerSummary{
		TotaleEntrate:   money.Euro(in),
		TotaleUscite:    money.Euro(out),
		Saldo:           money.Euro(in - out),
		NumeroMovimenti: len(ms),
		Periodo:         period(r),
		Tipo:            kind,
	}
}

// Build собирает prima nota из уже упорядоченных движений.
func Build(ms []models.Movement, kind int, r models.DateRange) models.Ledger {
	if ms == nil {
		ms = []models.Movement{}
	}
	return models.Ledger{Movimenti: ms, Riepilogo: Summary(ms, kind, r)}
}

// Subtitle возвращает подзаголовок печатной формы для типа выборки.
func Subtitle(kind int) string {
	switch kind {
	case models.LedgerIncome:
		return "Solo Entrate"
	case models.LedgerExpenses:
		return "Solo Uscite"
	default:
		return "Movimenti completi (Entrate e Uscite)"
	}
}

// Print готовит prima nota к печати.
func Print(l models.Ledger, kind int, r models.DateRange, now time.Time) models.LedgerPrint {
	periodo := "Tutti i movimenti"
	if r.From != nil && r.To != nil {
		periodo = "Dal " + r.From.Format(dates.LayoutPrint) + " al " + r.To.Format(dates.LayoutPrint)
	}

	rows := make([]models.FormattedMovement, 0, len(l.Movimenti))
	for _, m := range l.Movimenti {
		sign := "+"
		if m.Importo < 0 {
			sign = "-"
		}
		saldo := money.Format(m.SaldoProgressivo)
		if m.SaldoProgressivo < 0 {
			saldo = "- " + saldo
		}
		rows = append(rows, models.FormattedMovement{
			Data:             m.Data.Format(dates.LayoutPrint),
			Numero:           m.Numero,
			Tipo:             m.Tipo,
			Descrizione:      m.Descrizione,
			Controparte:      m.Controparte,
			Segno:            sign,
			Importo:          money.Format(m.Importo),
			SaldoProgressivo: saldo,
		})
	}

	return models.LedgerPrint{
		Ledger: l,
		Intestazione: models.PrintHeader{
			Titolo:      "PRIMA NOTA",
			Sottotitolo: Subtitle(kind),
			Periodo:     periodo,
			DataStampa:  now.Format(dates.LayoutPrint),
		},
		MovimentiFormattati: rows,
	}
}

// SportYearMonths раскладывает помесячные суммы по двенадцати месяцам
// спортивного года, начиная с сентября. Пустые месяцы дают нули.
func SportYearMonths(startYear int, rows []models.MonthAmount) []models.MonthTotal {
	out := make([]models.MonthTotal, 0, 12)
	for _, m := range sportyear.Months() {
		year := startYear
		if m.Number < int(sportyear.FirstMonth) {
			year++
		}
		out = append(out, models.MonthTotal{Mese: m.Number, Nome: m.Name, Anno: year})
	}
	fill(out, rows)
	return out
}

// Trend возвращает двенадцать месяцев, заканчивающихся месяцем now.
func Trend(now time.Time, rows []models.MonthAmount) []models.MonthTotal {
	first := TrendStart(now)
	out := make([]models.MonthTotal, 0, 12)
	for i := 0; i < 12; i++ {
		t := first.AddDate(0, i, 0)
		out = append(out, models.MonthTotal{
			Mese: int(t.Month()),
			Nome: sportyear.MonthName(int(t.Month())),
			Anno: t.Year(),
		})
	}
	fill(out, rows)
	return out
}

// TrendStart возвращает первый день окна Trend.
func TrendStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
}

// ActivityTotals переводит суммы по активностям в евро.
func ActivityTotals(rows []models.ActivityAmount) ([]models.ActivityTotal, int64) {
	out := make([]models.ActivityTotal, 0, len(rows))
	var total int64
	for _, r := range rows {
		out = append(out, models.ActivityTotal{
			AttivitaID: r.ActivityID,
			Nome:       r.Name,
			Totale:     money.Euro(r.Amount),
			Count:      r.Count,
		})
		total += r.Amount
	}
	return out, total
}

func fill(out []models.MonthTotal, rows []models.MonthAmount) {
	for _, r := range rows {
		for i := range out {
			if out[i].Anno == r.Year && out[i].Mese == r.Month {
				out[i].Totale = money.Euro(r.Amount)
				out[i].Count = r.Count
			}
		}
	}
}

func period(r models.DateRange) models.Period {
	var p models.Period
	if r.From != nil {
		p.Inizio = r.From.String()
	}
	if r.To != nil {
		p.Fine = r.To.String()
	}
	return p
}
