package domain

import (
	"errors"
	"fmt"
)

// InsufficientStockError は要求数量が在庫を超える場合のエラーです
// 不足している部品の一覧を保持します
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Shortages))
}

// IsInsufficientStock はInsufficientStockErrorかどうかを判定し、該当すればエラー本体を返します
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}
