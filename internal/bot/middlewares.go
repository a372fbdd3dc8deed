package bot

import (
	"errors"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/repository"
	"gopkg.in/telebot.v4"
)

const employeeKey = "employee"

// AuthMiddleware resolves the sender to an employee and stores it in the context.
// Unknown senders get a refusal and the handler is not run.
func (b *Bot) AuthMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(tCtx telebot.Context) error {
		sender := tCtx.Sender()
		if sender == nil {
			return nil
		}

		ctx, cancel := requestContext()
		defer cancel()

		employee, err := b.directory.Employee(ctx, models.ByUserID(sender.ID))
		switch {
		case errors.Is(err, repository.ErrNotFound):
			b.log.Info("Access denied", "username", sender.Username, "id", sender.ID)
			if tCtx.Callback() != nil {
				_ = tCtx.Respond(&telebot.CallbackResponse{Text: b.t(tCtx, "welcome.unknown"), ShowAlert: true})
				return nil
			}
			return b.send(tCtx, "text", b.t(tCtx, "welcome.unknown"))
		case err != nil:
			b.log.Error("Failed to resolve telegram user", "id", sender.ID, "error", err)
			return b.send(tCtx, "error", b.t(tCtx, "error.storage_unavailable"))
		}

		tCtx.Set(employeeKey, employee)
		return next(tCtx)
	}
}

// currentEmployee returns the employee stored by AuthMiddleware.
func currentEmployee(tCtx telebot.Context) models.Employee {
	employee, _ := tCtx.Get(employeeKey).(models.Employee)
	return employee
}
