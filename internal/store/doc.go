package store

import "github.com/shopspring/decimal"

// Firestore encodes structs from exported fields only, and decimal.Decimal
// has none, so monetary amounts cross this boundary as fixed-point strings.
// Each store converts between its model and a doc struct on read and write.

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
