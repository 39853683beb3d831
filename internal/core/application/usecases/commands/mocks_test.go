package commands_test

import (
	"context"

	"returnsync/internal/core/application/usecases/commands"
	"returnsync/internal/core/domain/model/audit"
	"returnsync/internal/core/domain/model/carrier"
	"returnsync/internal/core/domain/model/cursor"
	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockReturnRepository struct{ mock.Mock }

func (m *MockReturnRepository) Add(ctx context.Context, r *returns.Return) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) Update(ctx context.Context, r *returns.Return) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) Get(ctx context.Context, id kernel.UUID) (*returns.Return, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*returns.Return), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReturnRepository) GetByTrackingID(ctx context.Context, trackingID string) (*returns.Return, error) {
	args := m.Called(ctx, trackingID)
	if r := args.Get(0); r != nil {
		return r.(*returns.Return), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReturnRepository) GetAllInStatus(ctx context.Context, status returns.Status) ([]*returns.Return, error) {
	args := m.Called(ctx, status)
	if r := args.Get(0); r != nil {
		return r.([]*returns.Return), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Add(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ExistsByEventID(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuditRepository) GetRecent(ctx context.Context, limit int) ([]*audit.Entry, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]*audit.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDiscrepancyRepository struct{ mock.Mock }

func (m *MockDiscrepancyRepository) Add(ctx context.Context, d *discrepancy.Discrepancy) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDiscrepancyRepository) Update(ctx context.Context, d *discrepancy.Discrepancy) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDiscrepancyRepository) Get(ctx context.Context, id kernel.UUID) (*discrepancy.Discrepancy, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*discrepancy.Discrepancy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDiscrepancyRepository) HasOpenForReturn(
	ctx context.Context, returnID kernel.UUID, typ discrepancy.Type,
) (bool, error) {
	args := m.Called(ctx, returnID, typ)
	return args.Bool(0), args.Error(1)
}

type MockCursorRepository struct{ mock.Mock }

func (m *MockCursorRepository) Get(ctx context.Context, source string) (cursor.SyncCursor, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(cursor.SyncCursor), args.Error(1)
}

func (m *MockCursorRepository) Save(ctx context.Context, c cursor.SyncCursor) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) ListEvents(
	ctx context.Context, window kernel.TimeWindow, pageToken string,
) (carrier.EventPage, error) {
	args := m.Called(ctx, window, pageToken)
	return args.Get(0).(carrier.EventPage), args.Error(1)
}

func (m *MockCarrierClient) GetReturnStatus(ctx context.Context, trackingID string) (string, error) {
	args := m.Called(ctx, trackingID)
	return args.String(0), args.Error(1)
}

type MockReturnUoW struct{ mock.Mock }

func (m *MockReturnUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReturnUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReturnUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReturnUoW) ReturnRepository() ports.ReturnRepository {
	args := m.Called()
	return args.Get(0).(ports.ReturnRepository)
}

func (m *MockReturnUoW) DiscrepancyRepository() ports.DiscrepancyRepository {
	args := m.Called()
	return args.Get(0).(ports.DiscrepancyRepository)
}

type MockReturnUoWFactory struct{ mock.Mock }

func (m *MockReturnUoWFactory) Create() commands.ReturnUoW {
	args := m.Called()
	return args.Get(0).(commands.ReturnUoW)
}

type MockSyncUoW struct{ mock.Mock }

func (m *MockSyncUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSyncUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSyncUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSyncUoW) ReturnRepository() ports.ReturnRepository {
	args := m.Called()
	return args.Get(0).(ports.ReturnRepository)
}

func (m *MockSyncUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

func (m *MockSyncUoW) DiscrepancyRepository() ports.DiscrepancyRepository {
	args := m.Called()
	return args.Get(0).(ports.DiscrepancyRepository)
}

func (m *MockSyncUoW) CursorRepository() ports.CursorRepository {
	args := m.Called()
	return args.Get(0).(ports.CursorRepository)
}

type MockSyncUoWFactory struct{ mock.Mock }

func (m *MockSyncUoWFactory) Create() commands.SyncUoW {
	args := m.Called()
	return args.Get(0).(commands.SyncUoW)
}
