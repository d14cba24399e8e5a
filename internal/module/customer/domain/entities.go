package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer は顧客を表します
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerRef は顧客の参照情報です
// 顧客レコードが存在しない場合はIDがnilのゲスト参照になります
type CustomerRef struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Name  string     `json:"name"`
	Phone string     `json:"phone"`
}

// IsGuest は顧客レコードに紐付かないゲスト参照かどうかを返します
func (r CustomerRef) IsGuest() bool {
	return r.ID == nil
}
