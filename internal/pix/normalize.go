// Package pix holds the pure transformation core: normalization of raw
// transaction payloads, deterministic ordering, pagination windows and
// aggregate sums. Everything here is side-effect free and total.
package pix

import "github.com/boddenberg/pix-consulta-go/internal/domain"

// Normalize maps one raw transaction into a canonical record. It never
// fails: missing payer fields degrade to empty strings and a missing or
// non-numeric amount degrades to NaN.
//
// Identifier resolution order is fixed: cpf before cnpj, empty string
// when neither is present.
func Normalize(raw domain.RawRecord) domain.CanonicalRecord {
	rec := domain.CanonicalRecord{
		Timestamp: raw.Horario,
		Amount:    domain.CoerceAmount(raw.Valor),
	}

	if p := raw.Pagador; p != nil {
		rec.PayerName = p.Nome
		switch {
		case p.CPF != "":
			rec.TaxID = p.CPF
		case p.CNPJ != "":
			rec.TaxID = p.CNPJ
		}
	}

	return rec
}

// NormalizeAll maps a full raw payload, preserving input order.
func NormalizeAll(raws []domain.RawRecord) []domain.CanonicalRecord {
	records := make([]domain.CanonicalRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, Normalize(raw))
	}
	return records
}
