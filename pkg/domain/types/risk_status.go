package types

// RiskStatus represents the status of a risk
type RiskStatus string

const (
	RiskStatusOpen      RiskStatus = "Open"
	RiskStatusMitigated RiskStatus = "Mitigated"
	RiskStatusClosed    RiskStatus = "Closed"

	// RiskStatusUnknown is the group key used for risks without a status.
	RiskStatusUnknown RiskStatus = "unknown"
)

// GroupKey returns the status, treating empty as RiskStatusUnknown.
func (s RiskStatus) GroupKey() RiskStatus {
	if s == "" {
		return RiskStatusUnknown
	}
	return s
}

// String returns the string representation of the risk status
func (s RiskStatus) String() string {
	return string(s)
}
