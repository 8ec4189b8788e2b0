package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
)

type fingerprintLine struct {
	BeerID   int64 `json:"beerId"`
	Quantity int32 `json:"orderQuantity"`
}

type fingerprintPayload struct {
	CustomerID  int64             `json:"customerId"`
	CallbackURL string            `json:"callbackUrl"`
	Lines       []fingerprintLine `json:"lines"`
}

// FingerprintCreateOrder hashes the placement payload, excluding the idempotency key.
// Line order is significant since it defines line indexes.
func FingerprintCreateOrder(input types.CreateOrderInput) (string, error) {
	payload := fingerprintPayload{
		CustomerID:  input.CustomerID,
		CallbackURL: input.CallbackURL,
		Lines:       make([]fingerprintLine, 0, len(input.Lines)),
	}
	for _, line := range input.Lines {
		payload.Lines = append(payload.Lines, fingerprintLine{BeerID: line.BeerID, Quantity: line.OrderQuantity})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
