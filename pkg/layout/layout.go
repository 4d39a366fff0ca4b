// Package layout arranges rendered fields vertically, horizontally or in
// a responsive grid.
package layout

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// Kind selects the arrangement.
type Kind string

const (
	Vertical   Kind = "vertical"
	Horizontal Kind = "horizontal"
	Grid       Kind = "grid"
)

// DefaultColumns is the grid column count used when none is set.
const DefaultColumns = 2

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("layout: unknown kind")

// ParseKind converts a configuration string. An empty string is Vertical.
func ParseKind(raw string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case "":
		return Vertical, nil
	case Vertical, Horizontal, Grid:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Layout wraps children in a single container.
type Layout struct {
	Kind    Kind
	Columns int
	Class   string
}

// New returns a layout of kind with the default column count.
func New(kind Kind) Layout {
	return Layout{Kind: kind, Columns: DefaultColumns}
}

// Classes returns the container class list.
func (l Layout) Classes() string {
	var base string
	switch l.Kind {
	case Horizontal:
		base = "space-y-4 sm:space-y-0 sm:space-x-4 sm:flex sm:items-end"
	case Grid:
		cols := l.Columns
		if cols <= 0 {
			cols = DefaultColumns
		}
		base = "grid grid-cols-1 gap-4 md:grid-cols-" + strconv.Itoa(cols)
	default:
		base = "space-y-4"
	}
	if extra := strings.TrimSpace(l.Class); extra != "" {
		return base + " " + extra
	}
	return base
}

// Child renders one item inside the container.
type Child func(w io.Writer) error

// Render writes the container and each child in order. Nothing else is
// added around the children.
func (l Layout) Render(w io.Writer, children ...Child) error {
	if _, err := io.WriteString(w, `<div class="`+html.EscapeString(l.Classes())+`" data-layout="`+html.EscapeString(string(l.kind()))+`">`); err != nil {
		return err
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := child(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div>`)
	return err
}

func (l Layout) kind() Kind {
	if l.Kind == "" {
		return Vertical
	}
	return l.Kind
}
