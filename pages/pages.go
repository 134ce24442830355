// Package pages instantiates the generic page controller for every
// collection the console manages.
package pages

import (
	"time"

	"food-delivery-admin/logger"
	"food-delivery-admin/page"
)

// Env is shared by every page.
type Env struct {
	Clock    func() time.Time
	Location *time.Location
	Log      logger.ILogger
}

func options[T any](env Env) []page.Option[T] {
	var opts []page.Option[T]
	if env.Clock != nil {
		opts = append(opts, page.WithClock[T](env.Clock))
	}
	if env.Location != nil {
		opts = append(opts, page.WithLocation[T](env.Location))
	}
	if env.Log != nil {
		opts = append(opts, page.WithLogger[T](env.Log))
	}
	return opts
}

// resolvedAt is the resolved_at value for a status change: stamped when the
// request leaves its open states, cleared otherwise.
func resolvedAt(resolved bool, at time.Time) any {
	if !resolved {
		return nil
	}
	return at
}
