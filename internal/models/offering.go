package models

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Offering is a tithe or offering record.
type Offering struct {
	ID            int64        `json:"id"`
	MemberID      *int64       `json:"memberId"`
	Member        *MemberRef   `json:"member"`
	Date          time.Time    `json:"date"`
	Type          OfferingType `json:"type"`
	Amount        Money        `json:"amount"`
	Note          *string      `json:"note"`
	ReceiptNumber *string      `json:"receiptNumber"`
	IsAnonymous   bool         `json:"isAnonymous"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// OfferingStats aggregates offerings over a filter.
type OfferingStats struct {
	TotalAmount      Money            `json:"totalAmount"`
	TotalRecords     int64            `json:"totalRecords"`
	AmountByType     map[string]Money `json:"amountByType"`
	AmountByUserType map[string]Money `json:"amountByUserType"`
	AnonymousCount   int64            `json:"anonymousCount"`
	AnonymousAmount  Money            `json:"anonymousAmount"`
}

// Money is an amount in cents. It travels as a decimal number in JSON so
// sums stay exact in storage and in aggregation.
type Money int64

// MoneyFromFloat rounds a currency amount to whole cents.
func MoneyFromFloat(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = MoneyFromFloat(f)
	return nil
}
