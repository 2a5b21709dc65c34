package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a server-assigned integer key. The PHP endpoints emit it either as
// a JSON number or as a numeric string.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("id %s: %w", string(b), err)
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Money is a decimal currency value. Decoding never fails: numbers and
// numeric strings parse exactly, anything else reads as zero.
type Money struct {
	decimal.Decimal
}

func NewMoney(s string) Money {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}
	}
	return Money{d}
}

func MoneyFromDecimal(d decimal.Decimal) Money { return Money{d} }

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	m.Decimal = decimal.Zero
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*m = NewMoney(strings.ReplaceAll(s, ",", ""))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*m = NewMoney(string(b))
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}
