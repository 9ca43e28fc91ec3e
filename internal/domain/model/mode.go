package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned by ParseMode for anything other than "inline"
// or "separate".
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects how annotations are reported. It is a closed set: the only
// implementations are SeparateMode and InlineMode.
type Mode interface {
	fmt.Stringer
	mode()
}

// SeparateMode reports annotations as a named check run on the commit.
type SeparateMode struct {
	Name  string // Check run name, the upsert key together with the commit.
	Title string // Output title.
}

func (SeparateMode) mode()          {}
func (SeparateMode) String() string { return "separate" }

// InlineMode reports failures as workflow commands in the job log.
type InlineMode struct{}

func (InlineMode) mode()          {}
func (InlineMode) String() string { return "inline" }

// ParseMode maps the configured mode string to a Mode. name and title are
// only carried by SeparateMode.
func ParseMode(raw, name, title string) (Mode, error) {
	switch raw {
	case "separate":
		return SeparateMode{Name: name, Title: title}, nil
	case "inline":
		return InlineMode{}, nil
	default:
		return nil, fmt.Errorf("%w %q: expected \"inline\" or \"separate\"", ErrInvalidMode, raw)
	}
}
