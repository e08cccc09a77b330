package overlay

import (
	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
)

// Adopted returns a copy of the area whose empty membership is seeded with
// ids in the given order, skipping empty and repeated ids. The second result
// is false, and the area returned unchanged, when Members is already
// non-empty or ids holds nothing to adopt.
func (a Area) Adopted(ids []catalogs.ID) (Area, bool) {
	if len(a.Members) > 0 {
		return a, false
	}
	seen := make(map[catalogs.ID]bool, len(ids))
	members := make([]catalogs.ID, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) == 0 {
		return a, false
	}
	out := a.Clone()
	out.Members = members
	return out, true
}

// CheckOrder verifies that order holds exactly the ids of members, each once.
func CheckOrder(members, order []catalogs.ID) error {
	current := make(map[catalogs.ID]bool, len(members))
	for _, id := range members {
		current[id] = true
	}

	mismatch := &errors.OrderMembershipMismatchError{}
	seen := make(map[catalogs.ID]bool, len(order))
	for _, id := range order {
		if seen[id] {
			mismatch.Duplicates = append(mismatch.Duplicates, string(id))
			continue
		}
		seen[id] = true
		if !current[id] {
			mismatch.Unexpected = append(mismatch.Unexpected, string(id))
		}
	}
	for _, id := range members {
		if !seen[id] {
			mismatch.Missing = append(mismatch.Missing, string(id))
		}
	}

	if len(mismatch.Missing)+len(mismatch.Unexpected)+len(mismatch.Duplicates) > 0 {
		return mismatch
	}
	return nil
}
