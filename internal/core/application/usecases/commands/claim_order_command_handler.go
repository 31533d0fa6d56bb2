package commands

import (
	"context"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/domain/services"
)

// ClaimResult is the state committed by a successful claim.
type ClaimResult struct {
	Order  *order.Order
	Driver *user.User
}

// ClaimOrderCommandHandler arbitrates concurrent claims.
//
// The store decides the winner: the order row is written with
// "WHERE status = WAITING_DRIVER" and the driver row with
// "WHERE active_order IS NULL". The first transaction to commit wins, every
// other one matches zero rows and fails immediately, without waiting or retrying.
//
// Example:
//
//	res, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrAlreadyClaimed):
//	    // too late, someone else holds it
//	case errors.Is(err, services.ErrDriverBusy):
//	    // the driver must finish the current order first
//	}
type ClaimOrderCommandHandler struct {
	uowFactory LedgerUoWFactory
	claimer    services.OrderClaimer
	clock      Clock
}

// NewClaimOrderCommandHandler creates a claim handler. A nil clock means UTCNow.
func NewClaimOrderCommandHandler(uowFactory LedgerUoWFactory, clock Clock) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		claimer:    services.NewOrderClaimer(),
		clock:      clockOrDefault(clock),
	}
}

// Handle reserves the order for the driver.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown order
//   - ErrUnknownUser for an unregistered driver
//   - services.ErrNotDriver, services.ErrDriverBusy, services.ErrAlreadyClaimed
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (ClaimResult, error) {
	if err := cmd.Validate(); err != nil {
		return ClaimResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ClaimResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	userRepo := uow.UserRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ClaimResult{}, err
	}

	driver, err := userRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return ClaimResult{}, unknownUser(err)
	}

	if err = h.claimer.Claim(o, driver, h.clock(), cmd.TTL()); err != nil {
		return ClaimResult{}, err
	}

	// order first, then driver: every ledger transaction locks in this order
	if err = orderRepo.Update(ctx, o, order.WaitingDriver); err != nil {
		return ClaimResult{}, lostRace(err, services.ErrAlreadyClaimed)
	}
	if err = userRepo.Update(ctx, driver, nil); err != nil {
		return ClaimResult{}, lostRace(err, services.ErrDriverBusy)
	}

	if err = uow.Commit(ctx); err != nil {
		return ClaimResult{}, err
	}

	return ClaimResult{Order: o, Driver: driver}, nil
}
