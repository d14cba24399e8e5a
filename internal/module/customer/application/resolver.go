package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/customer/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// Resolver は電話番号による顧客解決ユースケースを提供します
// 顧客レコードが見つからない場合はゲスト参照として扱います（find-or-guest）
type Resolver struct {
	customers domain.CustomerReader
	log       *slog.Logger
}

// NewResolver は新しいResolverを作成します
func NewResolver(customers domain.CustomerReader, log *slog.Logger) *Resolver {
	return &Resolver{
		customers: customers,
		log:       log,
	}
}

// Resolve は顧客参照を解決します
// explicitIDが指定されている場合はIDで取得し、見つからなければエラーを返します。
// それ以外は電話番号で検索し、該当がなければゲスト参照を返します。
func (r *Resolver) Resolve(ctx context.Context, explicitID *uuid.UUID, phone, name string) (domain.CustomerRef, error) {
	if explicitID != nil {
		customer, err := r.customers.GetByID(ctx, *explicitID)
		if err != nil {
			return domain.CustomerRef{}, fmt.Errorf("failed to resolve customer: %w", err)
		}
		id := customer.ID
		return domain.CustomerRef{ID: &id, Name: customer.Name, Phone: customer.Phone}, nil
	}

	if phone == "" {
		return domain.CustomerRef{}, apperr.NewValidation("customer ID or phone is required")
	}

	customer, err := r.customers.FindByPhone(ctx, phone)
	if err != nil {
		if apperr.IsNotFound(err) {
			r.log.Debug("電話番号に一致する顧客が存在しないためゲスト扱いにします", "phone", phone)
			return domain.CustomerRef{Name: name, Phone: phone}, nil
		}
		return domain.CustomerRef{}, fmt.Errorf("failed to resolve customer by phone: %w", err)
	}

	id := customer.ID
	return domain.CustomerRef{ID: &id, Name: customer.Name, Phone: customer.Phone}, nil
}
