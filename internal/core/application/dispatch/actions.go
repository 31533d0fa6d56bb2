package dispatch

import (
	"strings"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/ports"
	"truckbot/internal/pkg/errs"
)

// Action is what a broadcast button asks the ledger to do.
type Action int

// Take, Confirm and Cancel ride on the channel broadcast. Status and
// Withdraw are sent to the customer only.
const (
	UnknownAction Action = iota
	TakeAction
	ConfirmAction
	CancelAction
	StatusAction
	WithdrawAction
)

const (
	takePrefix     = "order_take_"
	confirmPrefix  = "order_confirm_"
	cancelPrefix   = "order_cancel_"
	statusPrefix   = "order_status_"
	withdrawPrefix = "order_withdraw_"
)

// Token encodes the action for orderID as a callback payload.
func (a Action) Token(orderID order.ID) string {
	switch a {
	case TakeAction:
		return takePrefix + orderID.String()
	case ConfirmAction:
		return confirmPrefix + orderID.String()
	case CancelAction:
		return cancelPrefix + orderID.String()
	case StatusAction:
		return statusPrefix + orderID.String()
	case WithdrawAction:
		return withdrawPrefix + orderID.String()
	default:
		return ""
	}
}

// ParseToken decodes a callback payload produced by Token.
func ParseToken(token string) (Action, order.ID, error) {
	for action, prefix := range map[Action]string{
		TakeAction:     takePrefix,
		ConfirmAction:  confirmPrefix,
		CancelAction:   cancelPrefix,
		StatusAction:   statusPrefix,
		WithdrawAction: withdrawPrefix,
	} {
		raw, found := strings.CutPrefix(token, prefix)
		if !found {
			continue
		}
		id, err := order.ParseID(raw)
		if err != nil {
			return UnknownAction, 0, err
		}
		return action, id, nil
	}
	return UnknownAction, 0, errs.NewValueIsInvalidError("action token")
}

func button(label string, action Action, orderID order.ID) ports.Action {
	return ports.Action{Label: label, Token: action.Token(orderID)}
}
