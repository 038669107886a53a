package models

// Settings настройки ассоциации и значения по умолчанию для документов.
type Settings struct {
	NomeAssociazione       string `json:"nomeAssociazione" validate:"required,max=255"`
	Indirizzo              string `json:"indirizzo" validate:"max=255"`
	Citta                  string `json:"citta" validate:"max=100"`
	Cap                    string `json:"cap" validate:"omitempty,cap"`
	Provincia              string `json:"provincia" validate:"max=2"`
	Telefono               string `json:"telefono" validate:"max=20"`
	Email                  string `json:"email" validate:"omitempty,mail,max=255"`
	SitoWeb                string `json:"sitoWeb" validate:"max=255"`
	CodiceFiscale          string `json:"codiceFiscale" validate:"max=16"`
	PartitaIva             string `json:"partitaIva" validate:"max=11"`
	Presidente             string `json:"presidente" validate:"max=255"`
	Segretario             string `json:"segretario" validate:"max=255"`
	Tesoriere              string `json:"tesoriere" validate:"max=255"`
	CausaleDefault         string `json:"causaleDefault" validate:"max=255"`
	ImportoDefaultTessera  int64  `json:"importoDefaultTessera" validate:"min=0"`
	ScadenzaDefaultTessera int    `json:"scadenzaDefaultTessera" validate:"min=1,max=36"`
	FormatoNumeroRicevuta  string `json:"formatoNumeroRicevuta" validate:"max=50"`
	IsDefault              bool   `json:"isDefault"`
}

// DefaultSettings возвращает настройки, действующие пока ничего не сохранено.
func DefaultSettings() Settings {
	return Settings{
		NomeAssociazione:       "Club Sportivo",
		CausaleDefault:         "Quota associativa",
		ImportoDefaultTessera:  5000,
		ScadenzaDefaultTessera: 12,
		FormatoNumeroRicevuta:  "R-{YEAR}-{NUMBER}",
		IsDefault:              true,
	}
}
