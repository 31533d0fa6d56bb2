package dispatch

import (
	"errors"
	"fmt"
	"html"
	"time"

	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/domain/services"
)

// event names the request a reply is written for.
type event string

const (
	submitEvent   event = "submit"
	claimEvent    event = "claim"
	confirmEvent  event = "confirm"
	releaseEvent  event = "release"
	withdrawEvent event = "withdraw"
)

func publishedText(id order.ID) string {
	return fmt.Sprintf("✅ Заказ #%s опубликован. Мы сообщим, когда водитель его возьмёт.", id)
}

func reservedText(id order.ID, until time.Time) string {
	return fmt.Sprintf("Вы взяли заказ #%s! Подтвердите его до %s.", id, formatDeadline(until))
}

func confirmedDriverText(id order.ID) string {
	return fmt.Sprintf("Заказ #%s подтверждён!", id)
}

func confirmedCustomerText(id order.ID, driver *user.User) string {
	phone := driver.Phone()
	if phone == "" {
		phone = "не указан"
	}
	return fmt.Sprintf("✅ Ваш заказ #%s подтверждён водителем %s!\nТелефон водителя: %s", id, driverName(driver), html.EscapeString(phone))
}

func releasedDriverText(id order.ID) string {
	return fmt.Sprintf("Вы отказались от заказа #%s.", id)
}

func releasedCustomerText(id order.ID) string {
	return fmt.Sprintf("❌ Водитель отказался от заказа #%s.\nВаш заказ снова доступен для других водителей.", id)
}

func expiredDriverText(id order.ID) string {
	return fmt.Sprintf("⌛ Время на подтверждение заказа #%s истекло. Заказ передан другим водителям.", id)
}

func expiredCustomerText(id order.ID) string {
	return fmt.Sprintf("⌛ Водитель не подтвердил заказ #%s вовремя. Заказ снова доступен для других водителей.", id)
}

func withdrawnText(id order.ID) string {
	return fmt.Sprintf("Заказ #%s снят с публикации.", id)
}

// failureText explains a rejected request to the actor.
func failureText(ev event, err error) string {
	switch {
	case errors.Is(err, commands.ErrUnknownUser):
		return "Вы не зарегистрированы. Нажмите /start и выберите роль."
	case errors.Is(err, services.ErrNotCustomer):
		return "❌ Только заказчики могут создавать заказы."
	case errors.Is(err, services.ErrNotDriver):
		return "❌ Брать заказы могут только водители."
	case errors.Is(err, services.ErrNotOwner):
		return "❌ Этот заказ принадлежит другому заказчику."
	}

	switch OutcomeOf(err) {
	case ValidationFailed:
		if ev == submitEvent {
			return "❌ Заказ не создан: укажите груз, адреса отправления и доставки и телефон."
		}
		return "❌ Некорректный запрос."
	case AlreadyClaimed:
		if ev == withdrawEvent {
			return "❌ Заказ уже взят водителем или закрыт, снять его нельзя."
		}
		return "Этот заказ уже взят другим водителем."
	case DriverBusy:
		return "У вас уже есть активный заказ. Сначала завершите его."
	case NotHolder, NotFound:
		if ev == withdrawEvent || ev == submitEvent {
			return "❌ Заказ не найден."
		}
		return "Заказ не найден или у вас нет прав на это действие."
	default:
		return "⚠️ Сервис временно недоступен. Попробуйте ещё раз чуть позже."
	}
}
