package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"madhav-couriers/internal/core/domain"

	"go.mongodb.org/mongo-driver/mongo"
)

// wrapStoreError marks connectivity failures as domain.ErrUnavailable and wraps the rest
func wrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
