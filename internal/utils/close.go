package utils

import (
	"io"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

// CloseBody closes an HTTP response body, logging a failed close at debug
// level. Used in defers where the error cannot be returned.
func CloseBody(log logger.Logger, body io.Closer) {
	if err := body.Close(); err != nil {
		log.Debug("close response body", logger.Error(err))
	}
}
