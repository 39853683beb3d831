package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "returnsync/internal/adapters/out/postgres"
	"returnsync/internal/adapters/out/postgres/auditrepo"
	"returnsync/internal/adapters/out/postgres/cursorrepo"
	"returnsync/internal/adapters/out/postgres/discrepancyrepo"
	"returnsync/internal/adapters/out/postgres/returnrepo"
	"returnsync/internal/core/domain/model/cursor"
	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/core/ports"
	"returnsync/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that one unit of work commits or
// rolls back the whole reconciliation batch (returns, discrepancies and the
// cursor) atomically, and that the advisory run lock is exclusive.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&returnrepo.ReturnDTO{},
		&returnrepo.ReturnItemDTO{},
		&auditrepo.EntryDTO{},
		&discrepancyrepo.DiscrepancyDTO{},
		&cursorrepo.CursorDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE returns, return_items, audit_entries, discrepancies, sync_cursors",
	).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestReturn(trackingID string) *returns.Return {
	item, err := returns.NewReturnItem("SKU-1", 1, returns.ConditionGood)
	suite.Require().NoError(err)
	ret, err := returns.NewReturn(
		kernel.NewUUID(), "ORD-1", trackingID, "operator1", []returns.ReturnItem{item},
	)
	suite.Require().NoError(err)
	return ret
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsBatchAtomically() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	ret := suite.createTestReturn("CGS001")
	suite.Require().NoError(uow.ReturnRepository().Add(ctx, ret))

	d, err := discrepancy.NewDiscrepancy(
		kernel.NewUUID(), ret.ID(), "", discrepancy.TypeCarrierRefused, "carrier reported refused",
	)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DiscrepancyRepository().Add(ctx, d))

	c, err := cursor.NewSyncCursor("cargus", "evt-9", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CursorRepository().Save(ctx, c))

	suite.Require().NoError(uow.Commit(ctx))

	// Everything is visible through a fresh unit of work.
	verify := suite.factory.Create()
	loaded, err := verify.ReturnRepository().Get(ctx, ret.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsEqual(ret))

	saved, err := verify.CursorRepository().Get(ctx, "cargus")
	suite.Require().NoError(err)
	suite.Equal("evt-9", saved.LastEventID())

	open, err := verify.DiscrepancyRepository().HasOpenForReturn(
		ctx, ret.ID(), discrepancy.TypeCarrierRefused,
	)
	suite.Require().NoError(err)
	suite.True(open)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsBatch() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	ret := suite.createTestReturn("CGS002")
	suite.Require().NoError(uow.ReturnRepository().Add(ctx, ret))

	c, err := cursor.NewSyncCursor("cargus", "evt-1", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CursorRepository().Save(ctx, c))

	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err = verify.ReturnRepository().Get(ctx, ret.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	// The cursor write rolled back with the rest of the batch.
	_, err = verify.CursorRepository().Get(ctx, "cargus")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_Fails() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCursorSave_Upserts() {
	ctx := context.Background()
	repo := cursorrepo.NewGormCursorRepository(suite.db)

	first, err := cursor.NewSyncCursor("cargus", "evt-1", time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Save(ctx, first))

	advanced, err := first.Advanced("evt-2", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Save(ctx, advanced))

	loaded, err := repo.Get(ctx, "cargus")
	suite.Require().NoError(err)
	suite.Equal("evt-2", loaded.LastEventID())

	var count int64
	suite.Require().NoError(suite.db.Model(&cursorrepo.CursorDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAdvisoryRunLock_Exclusive() {
	ctx := context.Background()

	first := postgresadapter.NewAdvisoryRunLock(suite.db)
	acquired, err := first.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.True(acquired)

	// A second invocation must not get the lock while the first holds it.
	second := postgresadapter.NewAdvisoryRunLock(suite.db)
	acquired, err = second.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.False(acquired)

	suite.Require().NoError(first.Release(ctx))

	acquired, err = second.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.True(acquired)
	suite.Require().NoError(second.Release(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAdvisoryRunLock_SharedInstanceNotReentrant() {
	ctx := context.Background()

	// The composition root hands the same instance to every cron tick and
	// HTTP trigger, so a second caller on a held instance must be told the
	// lock is taken instead of being waved through.
	lock := postgresadapter.NewAdvisoryRunLock(suite.db)
	acquired, err := lock.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.True(acquired)

	acquired, err = lock.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.False(acquired)

	suite.Require().NoError(lock.Release(ctx))

	acquired, err = lock.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.True(acquired)
	suite.Require().NoError(lock.Release(ctx))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
