package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

type normalizedCreateInput struct {
	UserID int64            `json:"userId"`
	Items  []normalizedItem `json:"items"`
}

type normalizedItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// FingerprintCreate builds a deterministic hash of a create-order request
// (excluding the idempotency key and the advisory client total).
func FingerprintCreate(input ports.CreateOrderInput) (string, error) {
	items := make([]normalizedItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, normalizedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Quantity < items[j].Quantity
	})
	payload, err := json.Marshal(normalizedCreateInput{UserID: input.Actor.UserID, Items: items})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
