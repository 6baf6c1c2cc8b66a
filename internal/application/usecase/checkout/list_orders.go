package checkout

import (
	"context"

	"github.com/khoahotran/duo-site/internal/domain/order"
)

type ListOrdersUseCase struct {
	orderRepo order.Repository
}

func NewListOrdersUseCase(r order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: r}
}

type ListOrdersInput struct {
	Limit  int
	Offset int
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, in ListOrdersInput) ([]*order.Order, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	return uc.orderRepo.List(ctx, in.Limit, in.Offset)
}
