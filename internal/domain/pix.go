package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// ============================================================
// Session
// ============================================================

// Session is the live authentication credential.
// A non-nil Session always carries a non-empty token.
type Session struct {
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// ============================================================
// Query input
// ============================================================

// DateRange bounds a transaction query. Both fields are required
// YYYY-MM-DD strings. Ordering (start <= end) is the remote service's
// responsibility, not validated here.
type DateRange struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

// ============================================================
// Wire shapes (listing endpoint)
// ============================================================

// RawPayer is the nested payer object on the wire. A payer may carry a
// cpf, a cnpj, both, or neither.
type RawPayer struct {
	CPF  string `json:"cpf,omitempty"`
	CNPJ string `json:"cnpj,omitempty"`
	Nome string `json:"nome,omitempty"`
}

// RawRecord is one transaction as the listing endpoint sends it.
// Valor is kept raw because the service emits it either as a number or
// as a numeric string; coercion happens during normalization.
type RawRecord struct {
	Horario string          `json:"horario"`
	Valor   json.RawMessage `json:"valor,omitempty"`
	Pagador *RawPayer       `json:"pagador,omitempty"`
}

// ListResponse is the top-level body of a successful listing call.
type ListResponse struct {
	Pix []RawRecord `json:"pix"`
}

// CoerceAmount turns a raw valor into a float64. Numbers and numeric
// strings parse; anything else (missing field, null, garbage) becomes
// NaN so malformed data stays visible instead of summing as zero.
func CoerceAmount(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return math.NaN()
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ============================================================
// Canonical shapes
// ============================================================

// CanonicalRecord is the normalized, UI-independent representation of
// one transaction.
type CanonicalRecord struct {
	Timestamp string  `json:"timestamp"`
	TaxID     string  `json:"tax_id"`
	PayerName string  `json:"payer_name"`
	Amount    float64 `json:"amount"`
}

// Page is a bounded view window into an ordered record set. It is
// recomputed on demand and never persisted.
type Page struct {
	Records    []CanonicalRecord `json:"records"`
	PageNumber int               `json:"page_number"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
