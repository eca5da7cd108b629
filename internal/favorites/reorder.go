package favorites

import (
	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// Drop describes a drag-and-drop gesture.
type Drop struct {
	DraggedID string `json:"draggedId"`
	// TargetID is the entry the dragged one lands before. Empty drops at the end.
	TargetID string `json:"targetId,omitempty"`
	// ParentID is the group of the drop location. Empty means root.
	ParentID string `json:"parentGroupId,omitempty"`
}

// Reorder resolves a drop against the collection and returns the new
// collection. ok is false when the gesture references a missing entry
// or would change nothing.
//
// With a target the whole destination scope is renumbered 0..n-1 and the
// dragged entry is placed right before the target. Without one it is
// appended with order max+1. The scope it left is closed up first.
func Reorder(items []domain.Entry, d Drop) ([]domain.Entry, bool) {
	from := indexOf(items, d.DraggedID)
	if from < 0 {
		return items, false
	}
	dragged := items[from]

	parent, target, ok := resolveDrop(items, dragged, d)
	if !ok {
		return items, false
	}

	oldScope := dragged.GroupID
	dragged.GroupID = parent

	out := make([]domain.Entry, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	renumber(out, oldScope, nil)

	if target == "" {
		dragged.Order = nextOrder(out, parent)
		out = append(out, dragged)
	} else {
		at := indexOf(out, target)
		anchor := out[at].Order

		// make room: everything at or after the target shifts by one
		for i := range out {
			if out[i].GroupID == parent && out[i].Order >= anchor {
				out[i].Order++
			}
		}
		dragged.Order = anchor

		out = append(out, domain.Entry{})
		copy(out[at+1:], out[at:])
		out[at] = dragged

		renumber(out, parent, map[string]bool{dragged.ID: true})
	}
	return out, true
}

// resolveDrop normalizes the gesture:
//   - dropping onto a group node makes that group the parent and appends
//   - a dragged group always stays at root; landing inside a group
//     places it before that group
//   - a target outside the stated parent scope wins over the parent
func resolveDrop(items []domain.Entry, dragged domain.Entry, d Drop) (parent, target string, ok bool) {
	parent, target = d.ParentID, d.TargetID

	if parent != "" && !isGroup(items, parent) {
		return "", "", false
	}

	if target != "" {
		t, found := find(items, target)
		if !found || t.ID == dragged.ID {
			return "", "", false
		}

		switch {
		case dragged.Kind == domain.KindGroup:
			parent = ""
			if t.GroupID != "" {
				target = t.GroupID
			}
		case t.Kind == domain.KindGroup && (t.ID == parent || parent == ""):
			parent, target = t.ID, ""
		default:
			parent = t.GroupID
		}
	} else if dragged.Kind == domain.KindGroup {
		parent = ""
	}

	if target == dragged.ID {
		return "", "", false
	}
	return parent, target, true
}
