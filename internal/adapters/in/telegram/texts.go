package telegram

import (
	"fmt"
	"html"
	"strings"

	"truckbot/internal/core/application/usecases/queries"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
)

const (
	startText = "👋 Добро пожаловать!\n\n" +
		"Выберите роль:\n" +
		"/customer - я заказчик\n" +
		"/driver &lt;машина&gt; - я водитель\n\n" +
		"/order - создать заказ\n/withdraw &lt;номер&gt; - снять заказ\n/me - мой профиль"

	orderUsageText = "📦 Чтобы создать заказ, отправьте одной строкой:\n" +
		"<code>/order груз; откуда; куда; телефон</code>"

	withdrawUsageText = "Укажите номер заказа: <code>/withdraw 7</code>"

	notRegisteredText = "Вы не зарегистрированы. Нажмите /start и выберите роль."
	unavailableText   = "⚠️ Сервис временно недоступен. Попробуйте ещё раз чуть позже."
	unknownActionText = "Неизвестное действие."
)

func carCatalogue() string {
	codes := make([]string, 0, len(user.CarModels()))
	for _, m := range user.CarModels() {
		codes = append(codes, string(m))
	}
	return strings.Join(codes, ", ")
}

func roleLabel(r user.Role) string {
	if r == user.Driver {
		return "Водитель"
	}
	return "Заказчик"
}

func registeredText(u *user.User) string {
	if u.IsDriver() {
		return fmt.Sprintf("Отлично! Роль: <b>%s</b>, машина: <b>%s</b>.\nТеперь вы можете принимать заказы.",
			roleLabel(u.Role()), carLabel(u.CarModel()))
	}
	return fmt.Sprintf("Отлично! Роль: <b>%s</b>.\nСоздайте заказ командой /order.", roleLabel(u.Role()))
}

func carLabel(m user.CarModel) string {
	if m == "" {
		return "не указана"
	}
	return m.Label()
}

// statusText answers a status button. Callback alerts are plain text.
func statusText(v queries.OrderView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Заказ #%s: ", v.ID)
	switch v.Status {
	case order.WaitingDriver:
		b.WriteString("ждёт водителя.")
	case order.Reserved:
		fmt.Fprintf(&b, "взят водителем %s.", driverLabel(v))
		if v.ReservedUntil != nil {
			fmt.Fprintf(&b, "\nОжидается подтверждение до %s.", v.ReservedUntil.UTC().Format("15:04 02.01 MST"))
		}
	case order.Completed:
		fmt.Fprintf(&b, "подтверждён водителем %s.", driverLabel(v))
	case order.Cancelled:
		b.WriteString("снят.")
	default:
		b.WriteString(v.Status.String())
	}
	return b.String()
}

func driverLabel(v queries.OrderView) string {
	if name := strings.TrimPrefix(v.DriverUsername, "@"); name != "" {
		return "@" + name
	}
	if v.DriverID != nil {
		return fmt.Sprintf("%d", *v.DriverID)
	}
	return "-"
}

func profileText(v queries.DriverStatusView) string {
	var b strings.Builder
	b.WriteString("👤 <b>Ваш профиль</b>\n")
	fmt.Fprintf(&b, "Роль: %s\n", roleLabel(v.Role))
	if v.Role == user.Driver {
		fmt.Fprintf(&b, "Машина: %s\n", html.EscapeString(carLabel(v.CarModel)))
	}
	if v.IsBusy() {
		fmt.Fprintf(&b, "\n🚚 <b>Активный заказ #%s</b>\n", *v.ActiveOrder)
		if v.ReservedUntil != nil {
			fmt.Fprintf(&b, "Подтвердите до %s", v.ReservedUntil.UTC().Format("15:04 02.01 MST"))
		}
	}
	return b.String()
}
