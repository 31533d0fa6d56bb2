package telegram_test

import (
	"context"
	"sync"
	"testing"
	"time"

	telegramin "truckbot/internal/adapters/in/telegram"
	"truckbot/internal/adapters/out/postgres"
	"truckbot/internal/adapters/out/postgres/testdb"
	"truckbot/internal/adapters/out/telegram/telegramtest"
	"truckbot/internal/core/application/dispatch"
	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/application/usecases/queries"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type request struct {
	kind    string
	actorID int64
	orderID order.ID
	fields  dispatch.OrderFields
}

// stubDispatcher records requests and answers with a fixed result.
type stubDispatcher struct {
	mu       sync.Mutex
	requests []request
	result   dispatch.Result
}

func (d *stubDispatcher) record(r request) dispatch.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, r)
	return d.result
}

func (d *stubDispatcher) SubmitOrder(_ context.Context, customerID int64, fields dispatch.OrderFields) dispatch.Result {
	return d.record(request{kind: "submit", actorID: customerID, fields: fields})
}

func (d *stubDispatcher) RequestClaim(_ context.Context, driverID int64, orderID order.ID) dispatch.Result {
	return d.record(request{kind: "claim", actorID: driverID, orderID: orderID})
}

func (d *stubDispatcher) RequestConfirm(_ context.Context, driverID int64, orderID order.ID) dispatch.Result {
	return d.record(request{kind: "confirm", actorID: driverID, orderID: orderID})
}

func (d *stubDispatcher) RequestRelease(_ context.Context, driverID int64, orderID order.ID) dispatch.Result {
	return d.record(request{kind: "release", actorID: driverID, orderID: orderID})
}

func (d *stubDispatcher) WithdrawOrder(_ context.Context, customerID int64, orderID order.ID) dispatch.Result {
	return d.record(request{kind: "withdraw", actorID: customerID, orderID: orderID})
}

type userFactory struct{ f *postgres.GormUnitOfWorkFactory }

func (u userFactory) Create() commands.UserUoW { return u.f.Create() }

type fixture struct {
	api        *telegramtest.FakeAPI
	bot        *tele.Bot
	dispatcher *stubDispatcher
	uows       *postgres.GormUnitOfWorkFactory
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	api, bot := telegramtest.New(t)
	db := testdb.New(t)
	dispatcher := &stubDispatcher{}

	uows := postgres.NewGormUnitOfWorkFactory(db)

	router := telegramin.NewRouter(
		dispatcher,
		commands.NewRegisterUserCommandHandler(userFactory{uows}, func() time.Time { return now }),
		queries.NewGetOrderQueryHandler(db),
		queries.NewGetDriverStatusQueryHandler(db),
		5*time.Second,
		zap.NewNop(),
	)
	router.Register(bot)

	return fixture{api: api, bot: bot, dispatcher: dispatcher, uows: uows}
}

// seedOrder stores an open order of customer 1001 and returns its number.
func (f fixture) seedOrder(t *testing.T) order.ID {
	t.Helper()

	ctx := t.Context()
	uow := f.uows.Create()
	customer, err := user.NewUser(1001, "customer", user.Customer, now)
	require.NoError(t, err)
	require.NoError(t, uow.UserRepository().Add(ctx, customer))

	o, err := order.NewOrder(customer.ID(), "cement", "Sergeli 3", "Yakkasaray 12", "+998901234567", now)
	require.NoError(t, err)
	require.NoError(t, o.Publish(now))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	return o.ID()
}

func (f fixture) press(userID int64, data string) {
	f.bot.ProcessUpdate(tele.Update{Callback: &tele.Callback{
		ID:     "cb-1",
		Sender: &tele.User{ID: userID},
		Data:   data,
	}})
}

func (f fixture) command(userID int64, text string) {
	f.bot.ProcessUpdate(tele.Update{Message: &tele.Message{
		ID:     1,
		Sender: &tele.User{ID: userID, Username: "sardor"},
		Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		Text:   text,
	}})
}

func (f fixture) lastReply(t *testing.T) string {
	t.Helper()

	sent := f.api.Calls("sendMessage")
	require.NotEmpty(t, sent)
	return sent[len(sent)-1].Param("text")
}

func TestRouter_Callbacks(t *testing.T) {
	t.Run("take button claims the order", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.result = dispatch.Result{Outcome: dispatch.OK, OrderID: 42, Reply: "reserved"}

		f.press(2002, "order_take_42")

		require.Len(t, f.dispatcher.requests, 1)
		assert.Equal(t, request{kind: "claim", actorID: 2002, orderID: 42}, f.dispatcher.requests[0])

		answers := f.api.Calls("answerCallbackQuery")
		require.Len(t, answers, 1)
		assert.Equal(t, "cb-1", answers[0].Param("callback_query_id"))
		assert.Equal(t, "reserved", answers[0].Param("text"))
	})

	t.Run("confirm and cancel buttons reach the holder requests", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.result = dispatch.Result{Outcome: dispatch.OK, Reply: "done"}

		f.press(2002, "order_confirm_42")
		f.press(2002, "\forder_cancel_43")

		require.Len(t, f.dispatcher.requests, 2)
		assert.Equal(t, "confirm", f.dispatcher.requests[0].kind)
		assert.Equal(t, order.ID(42), f.dispatcher.requests[0].orderID)
		assert.Equal(t, "release", f.dispatcher.requests[1].kind)
		assert.Equal(t, order.ID(43), f.dispatcher.requests[1].orderID)

		answers := f.api.Calls("answerCallbackQuery")
		require.Len(t, answers, 2)
		assert.Empty(t, answers[0].Param("show_alert"))
	})

	t.Run("rejections are shown as alerts", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.result = dispatch.Result{Outcome: dispatch.AlreadyClaimed, Reply: "already taken"}

		f.press(2003, "order_take_42")

		answers := f.api.Calls("answerCallbackQuery")
		require.Len(t, answers, 1)
		assert.Equal(t, "already taken", answers[0].Param("text"))
		assert.Equal(t, "true", answers[0].Param("show_alert"))
	})

	t.Run("withdraw button withdraws for the customer", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.result = dispatch.Result{Outcome: dispatch.OK, Reply: "withdrawn"}

		f.press(1001, "order_withdraw_42")

		require.Len(t, f.dispatcher.requests, 1)
		assert.Equal(t, request{kind: "withdraw", actorID: 1001, orderID: 42}, f.dispatcher.requests[0])
		answers := f.api.Calls("answerCallbackQuery")
		require.Len(t, answers, 1)
		assert.Equal(t, "withdrawn", answers[0].Param("text"))
	})

	t.Run("status button answers with the current status", func(t *testing.T) {
		f := newFixture(t)
		id := f.seedOrder(t)

		f.press(1001, "order_status_"+id.String())
		f.press(1001, "order_status_999")

		assert.Empty(t, f.dispatcher.requests)
		answers := f.api.Calls("answerCallbackQuery")
		require.Len(t, answers, 2)
		assert.Equal(t, "Заказ #"+id.String()+": ждёт водителя.", answers[0].Param("text"))
		assert.Equal(t, "true", answers[0].Param("show_alert"))
		assert.Contains(t, answers[1].Param("text"), "не найден")
	})

	t.Run("unknown tokens are answered without a request", func(t *testing.T) {
		f := newFixture(t)

		f.press(2002, "order_fly_42")
		f.press(2002, "order_take_abc")

		assert.Empty(t, f.dispatcher.requests)
		assert.Len(t, f.api.Calls("answerCallbackQuery"), 2)
	})
}

func TestRouter_OrderCommand(t *testing.T) {
	t.Run("submits the fields", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.result = dispatch.Result{Outcome: dispatch.OK, OrderID: 1}

		f.command(1001, "/order cement, 40 bags; Sergeli 3 ; Yakkasaray 12; +998901234567")

		require.Len(t, f.dispatcher.requests, 1)
		assert.Equal(t, request{
			kind:    "submit",
			actorID: 1001,
			fields: dispatch.OrderFields{
				Cargo:    "cement, 40 bags",
				FromAddr: "Sergeli 3",
				ToAddr:   "Yakkasaray 12",
				Phone:    "+998901234567",
			},
		}, f.dispatcher.requests[0])
		assert.Empty(t, f.api.Calls("sendMessage"))
	})

	t.Run("malformed payload gets usage help", func(t *testing.T) {
		f := newFixture(t)

		f.command(1001, "/order cement")

		assert.Empty(t, f.dispatcher.requests)
		assert.Contains(t, f.lastReply(t), "/order")
	})
}

func TestRouter_WithdrawCommand(t *testing.T) {
	t.Run("withdraws the numbered order", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.result = dispatch.Result{Outcome: dispatch.OK, OrderID: 7}

		f.command(1001, "/withdraw #7")

		require.Len(t, f.dispatcher.requests, 1)
		assert.Equal(t, request{kind: "withdraw", actorID: 1001, orderID: 7}, f.dispatcher.requests[0])
		assert.Empty(t, f.api.Calls("sendMessage"))
	})

	t.Run("missing number gets usage help", func(t *testing.T) {
		f := newFixture(t)

		f.command(1001, "/withdraw")

		assert.Empty(t, f.dispatcher.requests)
		assert.Contains(t, f.lastReply(t), "/withdraw 7")
	})
}

func TestRouter_Registration(t *testing.T) {
	t.Run("driver registers with a car and sees the profile", func(t *testing.T) {
		f := newFixture(t)

		f.command(2002, "/driver porter")
		assert.Contains(t, f.lastReply(t), "Porter")

		f.command(2002, "/me")
		reply := f.lastReply(t)
		assert.Contains(t, reply, "Водитель")
		assert.Contains(t, reply, "Porter")
		assert.NotContains(t, reply, "Активный заказ")
	})

	t.Run("unknown car is rejected", func(t *testing.T) {
		f := newFixture(t)

		f.command(2002, "/driver tesla")
		assert.Contains(t, f.lastReply(t), "Неизвестная модель")

		f.command(2002, "/me")
		assert.Contains(t, f.lastReply(t), "не зарегистрированы")
	})

	t.Run("customer role", func(t *testing.T) {
		f := newFixture(t)

		f.command(1001, "/customer")
		assert.Contains(t, f.lastReply(t), "Заказчик")

		f.command(1001, "/me")
		assert.Contains(t, f.lastReply(t), "Заказчик")
	})

	t.Run("start shows the commands", func(t *testing.T) {
		f := newFixture(t)

		f.command(1001, "/start")
		reply := f.lastReply(t)
		assert.Contains(t, reply, "/customer")
		assert.Contains(t, reply, "/driver")
	})
}
