package commands

import (
	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/observability"
)

// Command event types.
const (
	EventSaveStart      observability.EventType = "command.save.start"
	EventSaveComplete   observability.EventType = "command.save.complete"
	EventLoadStart      observability.EventType = "command.load.start"
	EventLoadComplete   observability.EventType = "command.load.complete"
	EventDeleteStart    observability.EventType = "command.delete.start"
	EventDeleteComplete observability.EventType = "command.delete.complete"
	EventRecordSkipped  observability.EventType = "command.record.skipped"
	EventCommandError   observability.EventType = "command.error"
)

var startEvents = map[category.Action]observability.EventType{
	category.ActionSave:   EventSaveStart,
	category.ActionLoad:   EventLoadStart,
	category.ActionDelete: EventDeleteStart,
}

var completeEvents = map[category.Action]observability.EventType{
	category.ActionSave:   EventSaveComplete,
	category.ActionLoad:   EventLoadComplete,
	category.ActionDelete: EventDeleteComplete,
}
