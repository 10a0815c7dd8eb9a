package storagemock

import (
	"context"

	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
	"github.com/Mamtha-mass/HR-designer-workflow/services/storage"
)

var _ storage.Storage = (*StorageMock)(nil)

// StorageMock is a storage.Storage whose behavior can be overridden per
// method. Unset methods serve the built-in catalog.
type StorageMock struct {
	ListMock func(ctx context.Context) ([]automation.Entry, error)
	GetMock  func(ctx context.Context, id string) (*automation.Entry, error)
}

func (m *StorageMock) List(ctx context.Context) ([]automation.Entry, error) {
	if m != nil && m.ListMock != nil {
		return m.ListMock(ctx)
	}
	return automation.Default(), nil
}

func (m *StorageMock) Get(ctx context.Context, id string) (*automation.Entry, error) {
	if m != nil && m.GetMock != nil {
		return m.GetMock(ctx, id)
	}
	e, err := automation.Find(automation.Default(), id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
