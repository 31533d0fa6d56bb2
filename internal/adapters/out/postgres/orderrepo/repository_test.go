package orderrepo_test

import (
	"testing"
	"time"

	"truckbot/internal/adapters/out/postgres/orderrepo"
	"truckbot/internal/adapters/out/postgres/testdb"
	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// OrderRepositoryTestSuite runs the repository against a real SQL engine.
type OrderRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryTestSuite) SetupTest() {
	suite.db = testdb.New(suite.T())
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryTestSuite) newOpenOrder() *order.Order {
	o, err := order.NewOrder(1001, "furniture, 12 boxes", "Chilanzar 9", "Yunusabad 4", "+998901234567", now)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Publish(now))
	return o
}

func (suite *OrderRepositoryTestSuite) TestAdd_AssignsIncreasingNumbers() {
	ctx := suite.T().Context()

	first := suite.newOpenOrder()
	second := suite.newOpenOrder()

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	suite.Positive(int64(first.ID()))
	suite.Greater(second.ID(), first.ID())
}

func (suite *OrderRepositoryTestSuite) TestAdd_RejectsUnconstructedOrder() {
	err := suite.repository.Add(suite.T().Context(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
}

func (suite *OrderRepositoryTestSuite) TestGet_RoundTrip() {
	ctx := suite.T().Context()
	o := suite.newOpenOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	ref, err := kernel.NewBroadcastRef(-100200, 77)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AttachBroadcast(ref, now))
	suite.Require().NoError(suite.repository.UpdateBroadcastRef(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())

	suite.Require().NoError(err)
	suite.Equal(o.ID(), got.ID())
	suite.Equal(int64(1001), got.CustomerID())
	suite.Equal("furniture, 12 boxes", got.Cargo())
	suite.Equal("Chilanzar 9", got.FromAddr())
	suite.Equal("Yunusabad 4", got.ToAddr())
	suite.Equal("+998901234567", got.Phone())
	suite.Equal(order.WaitingDriver, got.Status())
	suite.Nil(got.Driver())
	suite.Nil(got.ReservedUntil())
	suite.True(ref.IsEqual(got.BroadcastRef()))
	suite.True(now.Equal(got.CreatedAt()))
}

func (suite *OrderRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(suite.T().Context(), 404)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_CompareAndSet() {
	ctx := suite.T().Context()
	o := suite.newOpenOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.Reserve(2002, now, 15*time.Minute))
	suite.Require().NoError(suite.repository.Update(ctx, o, order.WaitingDriver))

	suite.Run("stale expectation loses", func() {
		stale := suite.newOpenOrder()
		suite.Require().NoError(stale.AssignID(o.ID()))
		suite.Require().NoError(stale.Reserve(3003, now, 15*time.Minute))

		err := suite.repository.Update(ctx, stale, order.WaitingDriver)

		suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	})

	suite.Run("winner is persisted", func() {
		got, err := suite.repository.Get(ctx, o.ID())
		suite.Require().NoError(err)

		suite.Equal(order.Reserved, got.Status())
		suite.Require().NotNil(got.Driver())
		suite.Equal(int64(2002), *got.Driver())
		suite.Require().NotNil(got.ReservedUntil())
		suite.True(now.Add(15 * time.Minute).Equal(*got.ReservedUntil()))
	})

	suite.Run("release clears driver and deadline", func() {
		suite.Require().NoError(o.Release(now.Add(time.Minute)))
		suite.Require().NoError(suite.repository.Update(ctx, o, order.Reserved))

		got, err := suite.repository.Get(ctx, o.ID())
		suite.Require().NoError(err)
		suite.Equal(order.WaitingDriver, got.Status())
		suite.Nil(got.Driver())
		suite.Nil(got.ReservedUntil())
	})
}

func (suite *OrderRepositoryTestSuite) TestListExpiredReservations() {
	ctx := suite.T().Context()

	reserve := func(driverID int64, ttl time.Duration) *order.Order {
		o := suite.newOpenOrder()
		suite.Require().NoError(suite.repository.Add(ctx, o))
		suite.Require().NoError(o.Reserve(driverID, now, ttl))
		suite.Require().NoError(suite.repository.Update(ctx, o, order.WaitingDriver))
		return o
	}

	late := reserve(1, 2*time.Minute)
	early := reserve(2, time.Minute)
	reserve(3, time.Hour)
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOpenOrder()))

	expired, err := suite.repository.ListExpiredReservations(ctx, now.Add(10*time.Minute), 10)
	suite.Require().NoError(err)
	suite.Require().Len(expired, 2)
	suite.Equal(early.ID(), expired[0].ID())
	suite.Equal(late.ID(), expired[1].ID())

	limited, err := suite.repository.ListExpiredReservations(ctx, now.Add(10*time.Minute), 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)

	none, err := suite.repository.ListExpiredReservations(ctx, now.Add(time.Minute), 10)
	suite.Require().NoError(err)
	suite.Empty(none, "deadline equal to now is not expired yet")

	_, err = suite.repository.ListExpiredReservations(ctx, now, 0)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *OrderRepositoryTestSuite) TestUpdate_KeepsAttachedBroadcast() {
	ctx := suite.T().Context()
	o := suite.newOpenOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	// a claim that loaded the order before the broadcast was attached
	claimView, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	ref, err := kernel.NewBroadcastRef(-100200, 5)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AttachBroadcast(ref, now))
	suite.Require().NoError(suite.repository.UpdateBroadcastRef(ctx, o))

	suite.Require().NoError(claimView.Reserve(2002, now, time.Minute))
	suite.Require().NoError(suite.repository.Update(ctx, claimView, order.WaitingDriver))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Reserved, got.Status())
	suite.True(ref.IsEqual(got.BroadcastRef()))
}

func (suite *OrderRepositoryTestSuite) TestUpdateBroadcastRef_Errors() {
	ctx := suite.T().Context()

	o := suite.newOpenOrder()
	suite.Require().ErrorIs(suite.repository.UpdateBroadcastRef(ctx, o), errs.ErrValueIsRequired)

	ref, err := kernel.NewBroadcastRef(-100200, 5)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignID(99))
	suite.Require().NoError(o.AttachBroadcast(ref, now))
	suite.Require().ErrorIs(suite.repository.UpdateBroadcastRef(ctx, o), errs.ErrObjectNotFound)
}

func TestOrderRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}
