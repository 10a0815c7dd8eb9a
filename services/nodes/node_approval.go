package nodes

// ApproverRoles lists the roles the editor offers for approval steps.
var ApproverRoles = []string{"Manager", "HRBP", "Director", "Finance"}

// ApprovalConfig describes a sign-off step. Requests at or below
// AutoApproveThreshold are approved without a reviewer.
type ApprovalConfig struct {
	Base
	ApproverRole         string  `json:"approverRole,omitempty" validate:"omitempty,oneof=Manager HRBP Director Finance"`
	AutoApproveThreshold float64 `json:"autoApproveThreshold,omitempty" validate:"gte=0"`
}

func (*ApprovalConfig) Kind() Kind { return KindApproval }
