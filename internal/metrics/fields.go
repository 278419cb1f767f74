package metrics

// Metric attribute keys.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrSource  = "source"
	AttrTrigger = "trigger"
	AttrOutcome = "outcome"
)

// Forecast run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeLocked  = "locked"
)
