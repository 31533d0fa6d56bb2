// Package telegram routes Telegram updates to the dispatch façade.
//
// Inline buttons carry action tokens. The channel broadcast uses
// order_take_<id>, order_confirm_<id> and order_cancel_<id>; the customer's
// copy of a published order adds order_status_<id> and order_withdraw_<id>.
// The router decodes a token, runs the matching request and answers the
// callback with the outcome text. A few commands cover role selection,
// order submission and withdrawal, and the driver's own status.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"truckbot/internal/core/application/dispatch"
	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/application/usecases/queries"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Dispatcher is the part of dispatch.Facade the router drives.
type Dispatcher interface {
	SubmitOrder(ctx context.Context, customerID int64, fields dispatch.OrderFields) dispatch.Result
	RequestClaim(ctx context.Context, driverID int64, orderID order.ID) dispatch.Result
	RequestConfirm(ctx context.Context, driverID int64, orderID order.ID) dispatch.Result
	RequestRelease(ctx context.Context, driverID int64, orderID order.ID) dispatch.Result
	WithdrawOrder(ctx context.Context, customerID int64, orderID order.ID) dispatch.Result
}

// Router holds the Telegram handlers.
type Router struct {
	dispatcher   Dispatcher
	registerUser commands.RegisterUserCommandHandler
	getOrder     queries.GetOrderQueryHandler
	driverStatus queries.GetDriverStatusQueryHandler
	timeout      time.Duration
	log          *zap.Logger
}

func NewRouter(
	dispatcher Dispatcher,
	registerUser commands.RegisterUserCommandHandler,
	getOrder queries.GetOrderQueryHandler,
	driverStatus queries.GetDriverStatusQueryHandler,
	timeout time.Duration,
	log *zap.Logger,
) *Router {
	return &Router{
		dispatcher:   dispatcher,
		registerUser: registerUser,
		getOrder:     getOrder,
		driverStatus: driverStatus,
		timeout:      timeout,
		log:          log.With(zap.String("component", "telegram_router")),
	}
}

// Register installs the handlers on bot.
func (r *Router) Register(bot *tele.Bot) {
	bot.Handle("/start", r.onStart)
	bot.Handle("/customer", r.onRole(user.Customer))
	bot.Handle("/driver", r.onRole(user.Driver))
	bot.Handle("/order", r.onOrder)
	bot.Handle("/withdraw", r.onWithdraw)
	bot.Handle("/me", r.onMe)
	bot.Handle(tele.OnCallback, r.onCallback)
}

func (r *Router) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *Router) onStart(c tele.Context) error {
	return c.Send(startText, tele.ModeHTML)
}

func (r *Router) onRole(role user.Role) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		var carModel user.CarModel
		if args := c.Args(); role == user.Driver && len(args) > 0 {
			carModel = user.CarModel(strings.ToLower(args[0]))
		}

		cmd, err := commands.NewRegisterUserCommand(sender.ID, sender.Username, role, "", carModel)
		if err != nil {
			return c.Send(registrationFailedText(err))
		}

		ctx, cancel := r.requestContext()
		defer cancel()

		u, err := r.registerUser.Handle(ctx, cmd)
		if err != nil {
			r.log.Info("registration rejected", zap.Int64("user_id", sender.ID), zap.Error(err))
			return c.Send(registrationFailedText(err))
		}

		r.log.Info("user registered", zap.Int64("user_id", u.ID()), zap.Stringer("role", u.Role()))
		return c.Send(registeredText(u), tele.ModeHTML)
	}
}

func (r *Router) onOrder(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	fields, ok := parseOrderFields(c.Message().Payload)
	if !ok {
		return c.Send(orderUsageText, tele.ModeHTML)
	}

	ctx, cancel := r.requestContext()
	defer cancel()

	// the façade reports the outcome to the customer itself
	r.dispatcher.SubmitOrder(ctx, sender.ID, fields)
	return nil
}

func (r *Router) onWithdraw(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	orderID, err := order.ParseID(strings.TrimPrefix(strings.TrimSpace(c.Message().Payload), "#"))
	if err != nil {
		return c.Send(withdrawUsageText, tele.ModeHTML)
	}

	ctx, cancel := r.requestContext()
	defer cancel()

	// the façade reports the outcome to the customer itself
	r.dispatcher.WithdrawOrder(ctx, sender.ID, orderID)
	return nil
}

func (r *Router) onMe(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	query, err := queries.NewGetDriverStatusQuery(sender.ID)
	if err != nil {
		return err
	}

	ctx, cancel := r.requestContext()
	defer cancel()

	view, err := r.driverStatus.Handle(ctx, query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return c.Send(notRegisteredText)
	}
	if err != nil {
		r.log.Error("status lookup failed", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send(unavailableText)
	}

	return c.Send(profileText(view), tele.ModeHTML)
}

func (r *Router) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || cb.Sender == nil {
		return nil
	}

	token := cb.Unique
	if token == "" {
		token = strings.TrimPrefix(strings.TrimSpace(cb.Data), "\f")
	}

	action, orderID, err := dispatch.ParseToken(token)
	if err != nil {
		r.log.Debug("unknown callback", zap.String("data", cb.Data), zap.Int64("user_id", cb.Sender.ID))
		return c.Respond(&tele.CallbackResponse{Text: unknownActionText})
	}

	ctx, cancel := r.requestContext()
	defer cancel()

	if action == dispatch.StatusAction {
		return c.Respond(&tele.CallbackResponse{Text: r.orderStatus(ctx, orderID), ShowAlert: true})
	}

	var res dispatch.Result
	switch action {
	case dispatch.TakeAction:
		res = r.dispatcher.RequestClaim(ctx, cb.Sender.ID, orderID)
	case dispatch.ConfirmAction:
		res = r.dispatcher.RequestConfirm(ctx, cb.Sender.ID, orderID)
	case dispatch.CancelAction:
		res = r.dispatcher.RequestRelease(ctx, cb.Sender.ID, orderID)
	case dispatch.WithdrawAction:
		res = r.dispatcher.WithdrawOrder(ctx, cb.Sender.ID, orderID)
	default:
		return c.Respond(&tele.CallbackResponse{Text: unknownActionText})
	}

	return c.Respond(&tele.CallbackResponse{
		Text:      res.Reply,
		ShowAlert: !res.IsOK() || action == dispatch.TakeAction,
	})
}

func (r *Router) orderStatus(ctx context.Context, orderID order.ID) string {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return unknownActionText
	}

	view, err := r.getOrder.Handle(ctx, query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Sprintf("Заказ #%s не найден.", orderID)
	}
	if err != nil {
		r.log.Error("order lookup failed", zap.Stringer("order_id", orderID), zap.Error(err))
		return unavailableText
	}

	return statusText(view)
}

// parseOrderFields reads "cargo; from; to; phone".
func parseOrderFields(payload string) (dispatch.OrderFields, bool) {
	parts := strings.Split(payload, ";")
	if len(parts) != 4 {
		return dispatch.OrderFields{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return dispatch.OrderFields{
		Cargo:    parts[0],
		FromAddr: parts[1],
		ToAddr:   parts[2],
		Phone:    parts[3],
	}, true
}

func registrationFailedText(err error) string {
	switch {
	case errors.Is(err, user.ErrHasActiveOrder):
		return "❌ Нельзя сменить роль, пока у вас есть активный заказ."
	case errors.Is(err, errs.ErrValueIsInvalid):
		return fmt.Sprintf("❌ Неизвестная модель машины. Доступны: %s.", carCatalogue())
	default:
		return unavailableText
	}
}
