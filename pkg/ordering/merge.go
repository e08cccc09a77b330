package ordering

import "github.com/agentstation/shelf/pkg/catalogs"

// MergeOrder writes the visual order of the rendered items back into the
// full member order. Slots held by rendered members are refilled in visual
// order; members that were hidden, for example by a search filter, keep
// their slots. Visual ids that are not members are ignored.
//
// The result always holds exactly the ids of members.
func MergeOrder(members, visual []catalogs.ID) []catalogs.ID {
	isMember := make(map[catalogs.ID]bool, len(members))
	for _, id := range members {
		isMember[id] = true
	}

	rendered := make(map[catalogs.ID]bool, len(visual))
	queue := make([]catalogs.ID, 0, len(visual))
	for _, id := range visual {
		if isMember[id] && !rendered[id] {
			rendered[id] = true
			queue = append(queue, id)
		}
	}

	merged := make([]catalogs.ID, 0, len(members))
	for _, id := range members {
		if rendered[id] {
			merged = append(merged, queue[0])
			queue = queue[1:]
			continue
		}
		merged = append(merged, id)
	}
	return merged
}
