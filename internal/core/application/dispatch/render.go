package dispatch

import (
	"fmt"
	"html"
	"strings"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/ports"
)

// deadlineLayout is used for reservation deadlines shown to people.
const deadlineLayout = "15:04 02.01 MST"

// RenderBroadcast derives the channel message of an order and its buttons
// from the order's current state. driver is the holding or completing driver
// and may be nil. The output is HTML.
func RenderBroadcast(o *order.Order, driver *user.User) (string, []ports.Action) {
	id := o.ID()

	switch o.Status() {
	case order.Reserved:
		var b strings.Builder
		fmt.Fprintf(&b, "❗ <b>Заказ #%s взят!</b>\n", id)
		fmt.Fprintf(&b, "Водитель: %s\n", driverName(driver))
		if until := o.ReservedUntil(); until != nil {
			fmt.Fprintf(&b, "Ожидается подтверждение до %s.\n", formatDeadline(*until))
		}
		b.WriteString("\n")
		b.WriteString(orderDetails(o))
		return b.String(), []ports.Action{
			button("✅ Подтвердить", ConfirmAction, id),
			button("❌ Отменить", CancelAction, id),
		}

	case order.Completed:
		return fmt.Sprintf(
			"✅ <b>Заказ #%s подтверждён</b>\nВодитель: %s\nЗаказчик: %s\nБольше недоступен.",
			id, driverName(driver), html.EscapeString(o.Phone()),
		), nil

	case order.Cancelled:
		return fmt.Sprintf("🚫 <b>Заказ #%s снят заказчиком</b>", id), nil

	default:
		return fmt.Sprintf("🚚 <b>Новый заказ #%s</b>\n\n%s", id, orderDetails(o)), []ports.Action{
			button("Взять заказ", TakeAction, id),
		}
	}
}

// customerActions are attached to the customer's copy of a published order.
func customerActions(id order.ID) []ports.Action {
	return []ports.Action{
		button("ℹ️ Статус", StatusAction, id),
		button("🚫 Снять заказ", WithdrawAction, id),
	}
}

func orderDetails(o *order.Order) string {
	return fmt.Sprintf(
		"📦 <b>Груз:</b> %s\n📍 <b>Откуда:</b> %s\n🏁 <b>Куда:</b> %s\n📱 <b>Телефон:</b> %s",
		html.EscapeString(o.Cargo()),
		html.EscapeString(o.FromAddr()),
		html.EscapeString(o.ToAddr()),
		html.EscapeString(o.Phone()),
	)
}

func driverName(driver *user.User) string {
	if driver == nil {
		return "водитель"
	}
	name := strings.TrimPrefix(driver.Username(), "@")
	if name == "" {
		return fmt.Sprintf("водитель %d", driver.ID())
	}
	return "@" + html.EscapeString(name)
}

func formatDeadline(t time.Time) string {
	return t.UTC().Format(deadlineLayout)
}
