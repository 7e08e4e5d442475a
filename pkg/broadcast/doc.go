// Package broadcast fans typed messages out to in-process subscribers.
//
// Forms publish their State through a MemoryBroadcaster after every change;
// the view layer subscribes and re-renders:
//
//	states := broadcast.NewMemoryBroadcaster[formkit.State](16)
//	sub := states.Subscribe(ctx)
//	for msg := range sub.Receive(ctx) {
//		render(msg.Data)
//	}
//
// Publishing never blocks on a slow subscriber. When its buffer is full the
// oldest queued message is replaced by the new one, so a reader that falls
// behind still ends on the latest state. Dropped counts the replacements.
//
// A subscription ends when its context is cancelled, when it is closed, or
// when the broadcaster is closed; its Receive channel is then closed.
package broadcast
