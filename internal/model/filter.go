package model

// BriefFilter narrows ListBriefs results.
type BriefFilter struct {
	ClientID string
	Status   []BriefStatus
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

// MotivationFilter narrows ListMotivations results.
type MotivationFilter struct {
	BriefID  string
	ClientID string
	Selected *bool
	Limit    int
	Offset   int
}

// CopyFilter narrows ListCopyVariants results.
type CopyFilter struct {
	BriefID      string
	MotivationID string
	ClientID     string
	Platform     string
	Selected     *bool
	Limit        int
	Offset       int
}

// AssetFilter narrows ListAssets results.
type AssetFilter struct {
	ClientID string
	Kind     []AssetKind
	Tags     []string
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

// ExecutionFilter narrows ListExecutions results.
type ExecutionFilter struct {
	MatrixID string
	ClientID string
	Status   []ExecutionStatus
	Sort     string
	Limit    int
	Offset   int
}
