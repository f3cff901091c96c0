package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
)

type normalizedPlacement struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// FingerprintPlacement hashes the fields that define a placement. Status and id are ignored
// because creation always resets them.
func FingerprintPlacement(order *domain.Order) (string, error) {
	var normalized normalizedPlacement
	if order != nil {
		normalized = normalizedPlacement{ProductID: order.ProductID, Quantity: order.Quantity}
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
