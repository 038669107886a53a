package models

import (
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
)

// Parameter параметр приложения.
type Parameter struct {
	ID             int       `json:"id"`
	ParameterName  string    `json:"parameterName" validate:"required,max=100,paramname"`
	ParameterValue string    `json:"parameterValue" validate:"max=4000"`
	Description    string    `json:"description" validate:"max=500"`
	DataType       string    `json:"dataType" validate:"omitempty,oneof=string number integer boolean date json"`
	Category       string    `json:"category" validate:"max=50"`
	Active         bool      `json:"active"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Defaults проставляет значения по умолчанию.
func (p *Parameter) Defaults() {
	if p.DataType == "" {
		p.DataType = "string"
	}
	if p.Category == "" {
		p.Category = "general"
	}
}

// ParameterList список параметров, также сгруппированный по категориям.
type ParameterList struct {
	Parameters []Parameter            `json:"parameters"`
	Grouped    map[string][]Parameter `json:"grouped"`
}

// SportYear спортивный год.
type SportYear struct {
	ID         int        `json:"id"`
	AnnoName   string     `json:"annoName" validate:"required,min=4,max=50"`
	DataInizio dates.Date `json:"dataInizio" validate:"required"`
	DataFine   dates.Date `json:"dataFine" validate:"required"`
	Active     bool       `json:"active"`
}
