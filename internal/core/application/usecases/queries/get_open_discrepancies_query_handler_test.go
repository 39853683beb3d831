package queries_test

import (
	"context"
	"testing"
	"time"

	"returnsync/internal/adapters/out/postgres/discrepancyrepo"
	"returnsync/internal/core/application/usecases/queries"
	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOpenDiscrepanciesQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOpenDiscrepanciesQueryHandler
	repo      *discrepancyrepo.GormDiscrepancyRepository
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&discrepancyrepo.DiscrepancyDTO{}))

	suite.handler = queries.NewGetOpenDiscrepanciesQueryHandler(db)
	suite.repo = discrepancyrepo.NewGormDiscrepancyRepository(db)
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE discrepancies").Error)
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) addDiscrepancy(
	typ discrepancy.Type, resolved bool,
) *discrepancy.Discrepancy {
	d, err := discrepancy.NewDiscrepancy(
		kernel.NewUUID(), kernel.NewUUID(), "SKU-1", typ, "note",
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), d))

	if resolved {
		suite.Require().NoError(d.Resolve("done", time.Now().UTC()))
		suite.Require().NoError(suite.repo.Update(context.Background(), d))
	}
	return d
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) TestHandle_EmptyDatabase() {
	result, err := suite.handler.Handle(context.Background(), queries.NewGetOpenDiscrepanciesQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) TestHandle_ReturnsOnlyUnresolved() {
	open := suite.addDiscrepancy(discrepancy.TypeQuantityMismatch, false)
	suite.addDiscrepancy(discrepancy.TypeConditionDamaged, true)

	result, err := suite.handler.Handle(context.Background(), queries.NewGetOpenDiscrepanciesQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(open.ID()))
	suite.Equal(discrepancy.TypeQuantityMismatch, result[0].Type)
	suite.Equal("note", result[0].Note)
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) TestHandle_OldestFirst() {
	first := suite.addDiscrepancy(discrepancy.TypeItemMissing, false)
	second := suite.addDiscrepancy(discrepancy.TypeCarrierRefused, false)

	// Force distinct creation times.
	suite.Require().NoError(suite.db.Exec(
		"UPDATE discrepancies SET created_at = created_at - INTERVAL '1 hour' WHERE id = ?",
		first.ID().Bytes(),
	).Error)

	result, err := suite.handler.Handle(context.Background(), queries.NewGetOpenDiscrepanciesQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].ID.IsEqual(first.ID()))
	suite.True(result[1].ID.IsEqual(second.ID()))
}

func (suite *GetOpenDiscrepanciesQueryHandlerTestSuite) TestHandle_InvalidQuery() {
	result, err := suite.handler.Handle(context.Background(), queries.GetOpenDiscrepanciesQuery{})

	suite.Require().Error(err)
	suite.Nil(result)
}

func TestGetOpenDiscrepanciesQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOpenDiscrepanciesQueryHandlerTestSuite))
}
