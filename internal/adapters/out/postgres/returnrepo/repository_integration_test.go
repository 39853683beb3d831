package returnrepo_test

import (
	"context"
	"testing"
	"time"

	"returnsync/internal/adapters/out/postgres/returnrepo"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ReturnRepositoryIntegrationTestSuite verifies return persistence behavior
// against a real PostgreSQL container.
type ReturnRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *returnrepo.GormReturnRepository
}

func (suite *ReturnRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&returnrepo.ReturnDTO{}, &returnrepo.ReturnItemDTO{}))
}

func (suite *ReturnRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE returns CASCADE").Error)
	suite.repository = returnrepo.NewGormReturnRepository(suite.db)
}

func (suite *ReturnRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ReturnRepositoryIntegrationTestSuite) createTestReturn(trackingID string) *returns.Return {
	good, err := returns.NewReturnItem("SKU-100", 2, returns.ConditionGood)
	suite.Require().NoError(err)
	damaged, err := returns.NewReturnItem("SKU-200", 1, returns.ConditionDamaged)
	suite.Require().NoError(err)

	ret, err := returns.NewReturn(
		kernel.NewUUID(), "ORD-42", trackingID, "operator1",
		[]returns.ReturnItem{good, damaged},
	)
	suite.Require().NoError(err)
	return ret
}

func (suite *ReturnRepositoryIntegrationTestSuite) TestAdd_RoundTripsItems() {
	ctx := context.Background()
	ret := suite.createTestReturn("CGS001")

	suite.Require().NoError(suite.repository.Add(ctx, ret))

	loaded, err := suite.repository.Get(ctx, ret.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsEqual(ret))
	suite.Equal(returns.Pending, loaded.Status())
	suite.Equal("ORD-42", loaded.OrderRef())
	suite.Equal("operator1", loaded.ProcessedBy())
	suite.Len(loaded.Items(), 2)
}

func (suite *ReturnRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ReturnRepositoryIntegrationTestSuite) TestGetByTrackingID() {
	ctx := context.Background()
	ret := suite.createTestReturn("CGS002")
	suite.Require().NoError(suite.repository.Add(ctx, ret))

	loaded, err := suite.repository.GetByTrackingID(ctx, "CGS002")
	suite.Require().NoError(err)
	suite.True(loaded.IsEqual(ret))

	_, err = suite.repository.GetByTrackingID(ctx, "CGS-MISSING")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ReturnRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndVerifiedAt() {
	ctx := context.Background()
	ret := suite.createTestReturn("CGS003")
	suite.Require().NoError(suite.repository.Add(ctx, ret))

	verifiedAt := time.Now().UTC()
	suite.Require().NoError(ret.ApplyStatus(returns.Completed, verifiedAt))
	suite.Require().NoError(suite.repository.Update(ctx, ret))

	loaded, err := suite.repository.Get(ctx, ret.ID())
	suite.Require().NoError(err)
	suite.Equal(returns.Completed, loaded.Status())
	suite.Require().NotNil(loaded.VerifiedAt())
	suite.WithinDuration(verifiedAt, *loaded.VerifiedAt(), time.Second)
	suite.Len(loaded.Items(), 2)
}

func (suite *ReturnRepositoryIntegrationTestSuite) TestUpdate_UnknownReturn() {
	ctx := context.Background()
	ret := suite.createTestReturn("CGS004")

	err := suite.repository.Update(ctx, ret)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ReturnRepositoryIntegrationTestSuite) TestGetAllInStatus() {
	ctx := context.Background()

	pending := suite.createTestReturn("CGS005")
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	inProgress := suite.createTestReturn("CGS006")
	suite.Require().NoError(inProgress.ApplyStatus(returns.InProgress, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, inProgress))

	result, err := suite.repository.GetAllInStatus(ctx, returns.InProgress)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].IsEqual(inProgress))
}

func TestReturnRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ReturnRepositoryIntegrationTestSuite))
}
