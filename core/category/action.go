package category

import (
	"fmt"
	"strings"
)

// Action is one of the operations a backup run can perform on a category.
type Action string

const (
	ActionSave   Action = "SAVE"
	ActionLoad   Action = "LOAD"
	ActionDelete Action = "DELETE"
)

// Actions returns every action in registration order.
func Actions() []Action {
	return []Action{ActionDelete, ActionLoad, ActionSave}
}

// ParseAction resolves an action name case-insensitively.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(name)))
	switch a {
	case ActionSave, ActionLoad, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

// ParseToken validates a category token as accepted on the command line
// ("all", "terrain", "objects", "attributes") and returns its registry form.
func ParseToken(token string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(token))
	if upper == AllToken {
		return AllToken, nil
	}
	c, err := Resolve(upper)
	if err != nil {
		return "", err
	}
	return c.Key(), nil
}

// Key builds the invoker action name for a category, e.g. "LOAD TERRAIN".
func (a Action) Key(c Category) string {
	return a.KeyFor(c.Key())
}

// KeyFor builds the invoker action name for a raw registry token such as
// AllToken.
func (a Action) KeyFor(token string) string {
	return fmt.Sprintf("%s %s", a, token)
}
