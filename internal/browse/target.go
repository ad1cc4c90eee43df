package browse

import "fmt"

// Wire selectors accepted by ParseSelector.
const (
	SelectorReset  = -1
	SelectorParent = -2
)

// TargetKind selects how Navigate moves the cursor.
type TargetKind int

// Navigation target kinds.
const (
	TargetChild TargetKind = iota
	TargetParent
	TargetReset
)

// Target is a navigation request.
type Target struct {
	Kind  TargetKind
	Index int
}

// Parent goes up one level.
func Parent() Target { return Target{Kind: TargetParent} }

// Reset returns to the start directory.
func Reset() Target { return Target{Kind: TargetReset} }

// Child enters the n-th listed subdirectory, or the n-th volume above root.
func Child(n int) Target { return Target{Kind: TargetChild, Index: n} }

// ParseSelector maps the integer selector of the API to a Target:
// -1 resets, -2 goes to the parent and n >= 0 enters child n.
func ParseSelector(sel int) (Target, error) {
	switch {
	case sel == SelectorReset:
		return Reset(), nil
	case sel == SelectorParent:
		return Parent(), nil
	case sel >= 0:
		return Child(sel), nil
	default:
		return Target{}, fmt.Errorf("%w: %d", ErrInvalidSelector, sel)
	}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetParent:
		return "parent"
	case TargetReset:
		return "reset"
	default:
		return fmt.Sprintf("child(%d)", t.Index)
	}
}
