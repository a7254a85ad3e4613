package assistant

import (
	"strings"

	"github.com/pkg/errors"
)

// ActionType identifies the UI side effect a reply requests.
type ActionType string

const (
	ActionNavigate          ActionType = "navigate"
	ActionSearch            ActionType = "search"
	ActionCategory          ActionType = "category"
	ActionAddToCart         ActionType = "addToCart"
	ActionShowProduct       ActionType = "showProduct"
	ActionSuggestNavigation ActionType = "suggestNavigation"
	ActionSuggestCheckout   ActionType = "suggestCheckout"
)

// Action is the machine-readable side effect attached to a reply.
// The zero value means no action.
type Action struct {
	Type ActionType
	Arg  string
}

// IsZero reports whether no action was requested.
func (a Action) IsZero() bool {
	return a.Type == ""
}

// Token renders the action in its wire form, e.g. "navigate:/cart" or
// "suggestCheckout".
func (a Action) Token() string {
	if a.IsZero() {
		return ""
	}
	if a.Arg == "" {
		return string(a.Type)
	}
	return string(a.Type) + ":" + a.Arg
}

// ParseAction parses a wire token back into an Action. An empty token
// yields the zero Action.
func ParseAction(token string) (Action, error) {
	if token == "" {
		return Action{}, nil
	}
	parts := strings.SplitN(token, ":", 2)
	action := Action{Type: ActionType(parts[0])}
	if len(parts) == 2 {
		action.Arg = parts[1]
	}
	switch action.Type {
	case ActionNavigate, ActionSearch, ActionCategory, ActionAddToCart,
		ActionShowProduct, ActionSuggestNavigation, ActionSuggestCheckout:
		return action, nil
	default:
		return Action{}, errors.Errorf("unknown action type %q", parts[0])
	}
}

// UIController is the surface the dispatcher drives. Implementations update
// whatever front end is attached to the session.
type UIController interface {
	Navigate(path string)
	Search(term string)
	SetCategory(category string)
}

// Dispatcher translates actions into UI controller calls.
type Dispatcher struct {
	ui UIController
}

// NewDispatcher creates a dispatcher bound to the given controller.
func NewDispatcher(ui UIController) *Dispatcher {
	return &Dispatcher{ui: ui}
}

// Dispatch applies the action's side effect. Suggestion actions and cart
// mutations carry no UI effect; the cart change has already happened by
// the time the action is dispatched.
func (d *Dispatcher) Dispatch(action Action) {
	if d == nil || d.ui == nil || action.IsZero() {
		return
	}
	switch action.Type {
	case ActionNavigate:
		d.ui.Navigate(action.Arg)
	case ActionSearch:
		d.ui.Search(action.Arg)
	case ActionCategory:
		d.ui.SetCategory(capitalize(action.Arg))
	case ActionShowProduct:
		d.ui.Navigate("/product/" + action.Arg)
	case ActionAddToCart, ActionSuggestNavigation, ActionSuggestCheckout:
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
