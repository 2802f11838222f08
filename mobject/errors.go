package mobject

import (
	"errors"
	"fmt"
)

// ErrStructureMismatch is returned when two mobjects that are meant to be
// blended pointwise do not share the same family topology or point count.
var ErrStructureMismatch = errors.New("structure mismatch")

// StructureMismatchError describes where two families diverge.
type StructureMismatchError struct {
	// Index is the family position of the mismatching member, or -1 when
	// the family sizes themselves differ.
	Index  int
	Start  int
	Target int
	What   string
}

func (e *StructureMismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s %d != %d", ErrStructureMismatch, e.What, e.Start, e.Target)
	}
	return fmt.Sprintf("%s: member %d %s %d != %d", ErrStructureMismatch, e.Index, e.What, e.Start, e.Target)
}

// Is reports whether target is ErrStructureMismatch.
func (e *StructureMismatchError) Is(target error) bool {
	return target == ErrStructureMismatch
}

// CheckFamilies verifies that two families can be blended member by member.
func CheckFamilies(start, target []*Mobject) error {
	if len(start) != len(target) {
		return &StructureMismatchError{Index: -1, Start: len(start), Target: len(target), What: "family size"}
	}
	for i := range start {
		if len(start[i].Points) != len(target[i].Points) {
			return &StructureMismatchError{Index: i, Start: len(start[i].Points), Target: len(target[i].Points), What: "point count"}
		}
		if len(start[i].children) != len(target[i].children) {
			return &StructureMismatchError{Index: i, Start: len(start[i].children), Target: len(target[i].children), What: "child count"}
		}
	}
	return nil
}
