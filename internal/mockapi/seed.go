package mockapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boddenberg/pix-consulta-go/internal/domain"

	"github.com/google/uuid"
)

// Record is one transfer as this service puts it on the wire. Valor is
// raw JSON because the real service emits it inconsistently: sometimes
// a number, sometimes a numeric string. The seed reproduces both so
// clients are forced to cope.
type Record struct {
	ID      string           `json:"id"`
	Horario string           `json:"horario"`
	Valor   json.RawMessage  `json:"valor"`
	Pagador *domain.RawPayer `json:"pagador,omitempty"`
}

// Day returns the calendar date of the record, zero when the timestamp
// does not parse.
func (r Record) Day() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, r.Horario); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

var seedPayers = []domain.RawPayer{
	{CPF: "123.456.789-00", Nome: "Maria Oliveira"},
	{CNPJ: "12.345.678/0001-90", Nome: "Padaria Dois Irmãos LTDA"},
	{CPF: "987.654.321-11", CNPJ: "98.765.432/0001-10", Nome: "Carlos Souza MEI"},
	{CPF: "111.222.333-44", Nome: "João Pereira"},
	{Nome: "Pagador sem documento"},
	{CNPJ: "43.210.987/0001-55", Nome: "Mercado São José"},
}

// SeedRecords generates a deterministic data set spread over the first
// quarter of 2024: a few transfers per day, payers cycling through the
// seed list, amounts alternating between number and string encoding.
func SeedRecords() []Record {
	base := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	records := make([]Record, 0, 120)

	for i := 0; i < 120; i++ {
		at := base.AddDate(0, 0, (i*3)/4).Add(time.Duration(8+(i*5)%10) * time.Hour).Add(time.Duration((i*17)%60) * time.Minute)
		amount := 10.0 + float64(i%40)*7.5 + float64(i%7)*0.25

		var valor json.RawMessage
		if i%3 == 0 {
			valor = json.RawMessage(fmt.Sprintf("%q", fmt.Sprintf("%.2f", amount)))
		} else {
			valor = json.RawMessage(fmt.Sprintf("%.2f", amount))
		}

		payer := seedPayers[i%len(seedPayers)]
		records = append(records, Record{
			ID:      uuid.NewString(),
			Horario: at.Format("2006-01-02T15:04"),
			Valor:   valor,
			Pagador: &payer,
		})
	}

	return records
}
