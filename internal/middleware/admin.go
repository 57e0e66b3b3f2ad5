package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AdminOnly creates middleware that lets only admins through.
// Everyone else is ignored silently so the command stays hidden.
func AdminOnly(isAdmin func(userID int64) bool, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			if !isAdmin(sender.ID) {
				logger.Info("Non-admin tried an admin command",
					zap.Int64("user_id", sender.ID),
					zap.String("text", c.Text()),
				)
				return nil
			}

			return next(c)
		}
	}
}
