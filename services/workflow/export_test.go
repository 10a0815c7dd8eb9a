package workflow

import "github.com/Mamtha-mass/HR-designer-workflow/services/nodes"

const TimestampLayout = timestampLayout

func ValidateSnapshot(snap nodes.Snapshot) (int, error) {
	return validateSnapshot(snap)
}
