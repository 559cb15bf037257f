package simulation

// SetBeforeTickLockHook runs hook on the timer goroutine after a firing passes
// its generation check and before it takes the tick lock.
func SetBeforeTickLockHook(e *Engine, hook func()) {
	e.beforeTickLock = hook
}
