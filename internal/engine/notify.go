package engine

// notify is a single-slot wakeup signal, the Go analogue of
// tokio::sync::Notify used by original_source/src-tauri/src/engine/mod.rs
// to wake a paused loop on both resume and stop.
type notify struct {
	ch chan struct{}
}

func newNotify() *notify {
	return &notify{ch: make(chan struct{}, 1)}
}

// signal wakes one waiter. Non-blocking: a pending, unconsumed signal
// is not duplicated.
func (n *notify) signal() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *notify) wait() <-chan struct{} {
	return n.ch
}
