package models

import (
	"time"

	"github.com/UnknownOlympus/bazaar/internal/org"
)

// PurchaseStatus is the approval state of a purchase.
type PurchaseStatus string

const (
	StatusPending  PurchaseStatus = "pending"
	StatusApproved PurchaseStatus = "approved"
	StatusRejected PurchaseStatus = "rejected"
)

// Purchase is a product bought by an employee and its approval lifecycle.
type Purchase struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"user_id"`
	ProductID       int64          `json:"product_id"`
	Status          PurchaseStatus `json:"status"`
	BoughtAt        time.Time      `json:"bought_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`
	UpdatedByUserID *int64         `json:"updated_by_user_id,omitempty"`
	UsageCount      int            `json:"usage_count"`
	UserComment     *string        `json:"user_comment,omitempty"`
	ManagerComment  *string        `json:"manager_comment,omitempty"`
}

// Decided reports whether the approve/reject decision has been made.
func (p Purchase) Decided() bool {
	return p.UpdatedByUserID != nil
}

// Decision is the approve/reject transition applied to a pending purchase.
type Decision struct {
	Status  PurchaseStatus
	By      int64
	At      time.Time
	Comment *string
}

// PurchaseUpdate describes a conditional change of a purchase. The store applies it
// only when the current status equals ExpectStatus. Exactly one of Decision,
// IncrementUsage and UserComment is expected to be set.
type PurchaseUpdate struct {
	ExpectStatus   PurchaseStatus
	Decision       *Decision
	IncrementUsage bool
	UsageLimit     int
	UserComment    *string
}

// PurchaseOrder selects the ordering of purchase listings.
type PurchaseOrder int

const (
	OrderBoughtAsc PurchaseOrder = iota
	OrderBoughtDesc
	OrderUpdatedDesc
)

// PurchaseFilter narrows a purchase listing. Zero values mean "no restriction".
type PurchaseFilter struct {
	UserID         int64
	ManagerRole    org.Role
	BuyerDivisions []string
	Status         PurchaseStatus
	Decided        *bool
	Order          PurchaseOrder
}

// PurchaseDetails bundles a purchase with the records shown next to it.
type PurchaseDetails struct {
	Purchase  Purchase  `json:"purchase"`
	Product   Product   `json:"product"`
	Buyer     *Employee `json:"buyer,omitempty"`
	BuyerHead *Employee `json:"buyer_head,omitempty"`
	Manager   *Employee `json:"manager,omitempty"`
}
