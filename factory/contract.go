/*
Package factory provides JSON to Go contract conversion.

PURPOSE:
  Converts JSON contract definitions (admin UI, demo scenarios, seed files)
  into studio.ContractTerms values and back. The wire shape is flat; the Go
  side is the closed NoContract | MonthlyRent | RentPack union.

JSON SCHEMA:
  {"type": "NONE"}
  {"type": "RENT_MONTHLY", "rent_amount": "400", "renewal_date": "2025-04-01"}
  {"type": "RENT_PACK", "rent_amount": "150", "pack_total": 10, "pack_used": 3}

  renewal_date accepts YYYY-MM-DD (midnight in the factory's location) or
  RFC 3339. pack_total 0 means a pack without presence limit.

USAGE:
  f := factory.NewContractFactory(time.UTC)
  terms, err := f.ParseContract(`{"type":"RENT_PACK","pack_total":10}`)

SEE ALSO:
  - studio/contract.go: ContractTerms definitions
  - api/dto.go: staff payloads embed ContractJSON
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

const dateLayout = "2006-01-02"

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ContractJSON is the JSON representation of a staff contract.
type ContractJSON struct {
	Type        string          `json:"type"`
	RentAmount  decimal.Decimal `json:"rent_amount"`
	RenewalDate string          `json:"renewal_date,omitempty"`
	PackTotal   int             `json:"pack_total,omitempty"`
	PackUsed    int             `json:"pack_used,omitempty"`
}

func (c ContractJSON) Validate() error {
	kind := studio.ContractType(strings.ToUpper(c.Type))
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required,
			validation.By(func(any) error {
				switch kind {
				case studio.ContractNone, studio.ContractMonthly, studio.ContractPack:
					return nil
				}
				return fmt.Errorf("must be one of NONE, RENT_MONTHLY, RENT_PACK")
			})),
		validation.Field(&c.RenewalDate, validation.When(kind == studio.ContractMonthly, validation.Required)),
		validation.Field(&c.PackTotal, validation.Min(0)),
		validation.Field(&c.PackUsed, validation.Min(0)),
	)
}

// =============================================================================
// CONTRACT FACTORY
// =============================================================================

// ContractFactory converts JSON contracts to studio terms.
type ContractFactory struct {
	loc *time.Location
}

// NewContractFactory creates a factory that reads bare dates in loc.
func NewContractFactory(loc *time.Location) *ContractFactory {
	if loc == nil {
		loc = time.Local
	}
	return &ContractFactory{loc: loc}
}

// ParseContract parses a JSON string into contract terms.
func (f *ContractFactory) ParseContract(jsonStr string) (studio.ContractTerms, error) {
	var cj ContractJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, &studio.ValidationError{Field: "contract", Message: "invalid JSON: " + err.Error()}
	}
	return f.Build(cj)
}

// Build validates cj and returns the matching terms. An empty type means
// no contract.
func (f *ContractFactory) Build(cj ContractJSON) (studio.ContractTerms, error) {
	if strings.TrimSpace(cj.Type) == "" {
		cj.Type = string(studio.ContractNone)
	}
	if err := cj.Validate(); err != nil {
		return nil, validationError("contract", err)
	}

	switch studio.ContractType(strings.ToUpper(cj.Type)) {
	case studio.ContractMonthly:
		renewal, err := f.parseDate(cj.RenewalDate)
		if err != nil {
			return nil, &studio.ValidationError{Field: "renewal_date", Message: err.Error()}
		}
		return studio.MonthlyRent{Amount: cj.RentAmount, RenewalDate: renewal}, nil
	case studio.ContractPack:
		return studio.RentPack{Amount: cj.RentAmount, Total: cj.PackTotal, Used: cj.PackUsed}, nil
	default:
		return studio.NoContract{}, nil
	}
}

// ToJSON is the inverse of Build.
func (f *ContractFactory) ToJSON(terms studio.ContractTerms) ContractJSON {
	switch t := terms.(type) {
	case studio.MonthlyRent:
		return ContractJSON{
			Type:        string(studio.ContractMonthly),
			RentAmount:  t.Amount,
			RenewalDate: t.RenewalDate.In(f.loc).Format(dateLayout),
		}
	case studio.RentPack:
		return ContractJSON{
			Type:       string(studio.ContractPack),
			RentAmount: t.Amount,
			PackTotal:  t.Total,
			PackUsed:   t.Used,
		}
	default:
		return ContractJSON{Type: string(studio.ContractNone), RentAmount: decimal.Zero}
	}
}

func (f *ContractFactory) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, f.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", s)
	}
	return t, nil
}

// validationError keeps the first ozzo field error as a studio.ValidationError.
func validationError(prefix string, err error) error {
	if verrs, ok := err.(validation.Errors); ok {
		for _, field := range []string{"type", "renewal_date", "pack_total", "pack_used"} {
			if ferr, ok := verrs[field]; ok {
				return &studio.ValidationError{Field: field, Message: ferr.Error()}
			}
		}
	}
	return &studio.ValidationError{Field: prefix, Message: err.Error()}
}
