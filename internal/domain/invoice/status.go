package invoice

// Status is the lifecycle state shared by invoices and bills.
//
// Reconciliation moves validated entities to payed when a payment is
// received, and payed entities to suspended when a payment is refunded or
// cancelled. The CRUD layer owns draft, validated, cancelled and deleted.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusValidated     Status = "validated"
	StatusPayed         Status = "payed"
	StatusCancelled     Status = "cancelled"
	StatusDeleted       Status = "deleted"
	StatusSuspended     Status = "suspended"
	StatusUnpaid        Status = "unpaid"
	StatusReconciliated Status = "reconciliated"
)

var validStatuses = map[Status]bool{
	StatusDraft:         true,
	StatusValidated:     true,
	StatusPayed:         true,
	StatusCancelled:     true,
	StatusDeleted:       true,
	StatusSuspended:     true,
	StatusUnpaid:        true,
	StatusReconciliated: true,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// Terminal reports whether no further lifecycle transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusDeleted
}
