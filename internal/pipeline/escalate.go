package pipeline

import (
	"snaporder/constants"
	"snaporder/internal/extract"
)

// ShouldUseAI decides whether a local extraction gets escalated to the vision
// model. In hybrid mode escalation happens when confidence is below the
// threshold or a key field category came back empty.
func ShouldUseAI(fs *extract.FieldSet, confidence float64, mode constants.AIMode, threshold float64) bool {
	switch mode {
	case constants.AIModeAlways:
		return true
	case constants.AIModeNever:
		return false
	case constants.AIModeHybrid:
		if confidence < threshold {
			return true
		}
		return len(fs.OrderIDs) == 0 || len(fs.Items) == 0
	default:
		return false
	}
}
