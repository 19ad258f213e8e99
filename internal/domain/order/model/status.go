package model

// Status is the closed set of order states. Lower case values are
// written by checkout and reconciliation, capitalised ones by admins.
type Status string

const (
	StatusCreated     Status = "created"
	StatusLinkCreated Status = "link_created"
	StatusPaid        Status = "paid"
	StatusOrphaned    Status = "orphaned"

	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusAdminPaid  Status = "Paid"
)

// AdminStatuses are the only values the status endpoint accepts
var AdminStatuses = []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusAdminPaid}

var allStatuses = []Status{
	StatusCreated, StatusLinkCreated, StatusPaid, StatusOrphaned,
	StatusProcessing, StatusShipped, StatusDelivered, StatusAdminPaid,
}

// Transitions is the documented lifecycle. Admin writes are not
// restricted to it; departures are only logged.
var Transitions = map[Status][]Status{
	StatusCreated:     {StatusPaid},
	StatusLinkCreated: {StatusAdminPaid},
	StatusOrphaned:    {StatusPaid},
	StatusPaid:        {StatusProcessing},
	StatusAdminPaid:   {StatusProcessing},
	StatusProcessing:  {StatusShipped},
	StatusShipped:     {StatusDelivered},
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) IsAdmin() bool {
	for _, v := range AdminStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// AwaitingPayment reports whether a verified payment may still move the order to paid
func (s Status) AwaitingPayment() bool {
	return s == StatusCreated || s == StatusLinkCreated || s == StatusOrphaned
}

// CanTransition reports whether from→to is in the documented table. Replays (X→X) always are.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
