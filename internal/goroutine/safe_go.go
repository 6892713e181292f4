package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/iconsult/match-backend/internal/logger"
)

// Go запускает горутину с обработкой panic. Используется для фоновых
// задач вроде геокодирования, падение которых не должно ронять процесс.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil && logger.Log != nil {
				logger.Log.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// GoWithContext запускает горутину с контекстом и обработкой panic.
func GoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil && logger.Log != nil {
				logger.Log.Errorf("Panic in goroutine (with context): %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}
