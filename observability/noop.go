package observability

import "context"

// NoOpObserver discards all events. Commands, the invoker, and the backup
// runtime use it when no observer is configured.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
