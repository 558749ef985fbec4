package mocks

import (
	"context"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/stretchr/testify/mock"
)

// BarRepository is a mock for bar.Repository.
type BarRepository struct {
	mock.Mock
}

func (m *BarRepository) Insert(ctx context.Context, b *bar.TimeBasedBar) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BarRepository) Get(ctx context.Context, id string) (*bar.TimeBasedBar, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*bar.TimeBasedBar); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BarRepository) UpdateDerived(ctx context.Context, id string, fields bar.DerivedFields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *BarRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BarRepository) ListAll(ctx context.Context) ([]bar.TimeBasedBar, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]bar.TimeBasedBar); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
