package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "truckbot/internal/adapters/out/postgres"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/ports"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the unit of work against PostgreSQL with
// the real migrations, so the constraints and compare-and-set updates are
// exercised under genuine concurrency.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("skipping PostgreSQL integration tests in short mode")
	}
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

	log := zap.NewNop()
	suite.Require().NoError(postgres_adapter.Migrate(dsn, log))
	suite.Require().NoError(postgres_adapter.Migrate(dsn, log), "second run is a no-op")

	db, err := postgres_adapter.Open(ctx, dsn, postgres_adapter.Options{MaxOpenConns: 16}, log)
	suite.Require().NoError(err)
	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE notification_outbox, orders, users RESTART IDENTITY CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) addUser(id int64, role user.Role) *user.User {
	u, err := user.NewUser(id, "", role, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().UserRepository().Add(suite.T().Context(), u))
	return u
}

func (suite *UnitOfWorkIntegrationTestSuite) addOpenOrder(customerID int64) *order.Order {
	now := time.Now().UTC()
	o, err := order.NewOrder(customerID, "sand, 2t", "Quarry", "Site 14", "+998900000000", now)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Publish(now))
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(suite.T().Context(), o))
	return o
}

// claim mirrors the claim transaction: order row first, then the driver row.
func (suite *UnitOfWorkIntegrationTestSuite) claim(ctx context.Context, orderID order.ID, driverID int64) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	now := time.Now().UTC()
	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}
	driver, err := uow.UserRepository().Get(ctx, driverID)
	if err != nil {
		return err
	}
	if err = o.Reserve(driverID, now, time.Minute); err != nil {
		return err
	}
	if err = driver.TakeOrder(orderID, now); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o, order.WaitingDriver); err != nil {
		return err
	}
	if err = uow.UserRepository().Update(ctx, driver, nil); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentClaims_SingleWinner() {
	ctx := suite.T().Context()
	suite.addUser(1, user.Customer)
	o := suite.addOpenOrder(1)

	const drivers = 12
	for i := int64(0); i < drivers; i++ {
		suite.addUser(100+i, user.Driver)
	}

	var wg sync.WaitGroup
	results := make([]error, drivers)
	for i := range drivers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = suite.claim(ctx, o.ID(), 100+int64(i))
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		suite.True(errors.Is(err, errs.ErrVersionIsInvalid), "unexpected error: %v", err)
	}
	suite.Equal(1, winners)

	got, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Reserved, got.Status())

	var holders int64
	suite.Require().NoError(suite.db.Table("users").Where("active_order = ?", int64(o.ID())).Count(&holders).Error)
	suite.Equal(int64(1), holders)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentClaims_DriverHoldsOneOrder() {
	ctx := suite.T().Context()
	suite.addUser(1, user.Customer)
	suite.addUser(100, user.Driver)

	const orders = 8
	ids := make([]order.ID, orders)
	for i := range orders {
		ids[i] = suite.addOpenOrder(1).ID()
	}

	var wg sync.WaitGroup
	results := make([]error, orders)
	for i := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = suite.claim(ctx, ids[i], 100)
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		}
	}
	suite.Equal(1, winners)

	var reserved int64
	suite.Require().NoError(suite.db.Table("orders").Where("status = ?", "RESERVED").Count(&reserved).Error)
	suite.Equal(int64(1), reserved)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSchemaRejectsInconsistentRows() {
	suite.addUser(1, user.Customer)

	err := suite.db.Exec(
		`INSERT INTO orders (customer_id, cargo, from_addr, to_addr, phone, status, created_at, updated_at)
		 VALUES (1, 'x', 'a', 'b', 'p', 'RESERVED', now(), now())`,
	).Error

	suite.Require().Error(err, "reserved order without driver and deadline must be rejected")
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
