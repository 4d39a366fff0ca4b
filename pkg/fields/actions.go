package fields

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ActionParam is the request parameter carried by the buttons a form
// renders. Its value is one of the *Action encodings below.
const ActionParam = "_action"

// Action kinds.
const (
	ActionSubmit = "submit"
	ActionReset  = "reset"
	ActionRemove = "remove"
	ActionSearch = "search"
	ActionChoose = "choose"
)

// ErrInvalidAction is returned by ParseAction for malformed values.
var ErrInvalidAction = errors.New("fields: invalid action")

// Action is a decoded button press.
type Action struct {
	Kind  string
	Field string
	Index int
	Value string
}

// SearchParam is the request parameter holding a searchable select's term.
func SearchParam(name string) string {
	return name + "__search"
}

// Field names are query-escaped inside action values so a name may
// contain the ':' separator.

// RemoveAction encodes removal of the file at index.
func RemoveAction(name string, index int) string {
	return ActionRemove + ":" + url.QueryEscape(name) + ":" + strconv.Itoa(index)
}

// SearchAction encodes a search request for a searchable select.
func SearchAction(name string) string {
	return ActionSearch + ":" + url.QueryEscape(name)
}

// ChooseAction encodes choosing value in a select.
func ChooseAction(name, value string) string {
	return ActionChoose + ":" + url.QueryEscape(name) + ":" + value
}

func fieldName(escaped string) (string, bool) {
	name, err := url.QueryUnescape(escaped)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// ParseAction decodes an ActionParam value. An empty value is a submit.
func ParseAction(raw string) (Action, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Action{Kind: ActionSubmit}, nil
	}
	kind, rest, _ := strings.Cut(raw, ":")
	switch kind {
	case ActionSubmit, ActionReset:
		if rest != "" {
			break
		}
		return Action{Kind: kind}, nil
	case ActionSearch:
		name, ok := fieldName(rest)
		if !ok {
			break
		}
		return Action{Kind: kind, Field: name}, nil
	case ActionRemove:
		escaped, idx, ok := strings.Cut(rest, ":")
		if !ok {
			break
		}
		name, ok := fieldName(escaped)
		if !ok {
			break
		}
		index, err := strconv.Atoi(idx)
		if err != nil || index < 0 {
			break
		}
		return Action{Kind: kind, Field: name, Index: index}, nil
	case ActionChoose:
		escaped, value, ok := strings.Cut(rest, ":")
		if !ok {
			break
		}
		name, ok := fieldName(escaped)
		if !ok {
			break
		}
		return Action{Kind: kind, Field: name, Value: value}, nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, raw)
}
