package models

import "github.com/UnknownOlympus/bazaar/internal/org"

// Employee represents an individual employee in the system.
// Records are owned by the identity system and are read-only here.
type Employee struct {
	ID              int      `json:"id"`                // Unique identifier for the employee row
	UserID          int64    `json:"user_id"`           // Telegram user ID, the identity used by the ledger
	FullName        string   `json:"fullname"`          // Full name of the employee
	Username        string   `json:"username"`          // Telegram username
	Position        string   `json:"position"`          // Job position of the employee
	Division        string   `json:"division"`          // Raw division, e.g. НТП1, НЦК
	Head            string   `json:"head"`              // Full name of the employee's head
	Role            org.Role `json:"role"`              // Numeric role code
	IsCasinoAllowed bool     `json:"is_casino_allowed"` // Casino eligibility flag
}

// EmployeeLookup selects an employee either by user ID or by full name.
type EmployeeLookup struct {
	UserID   int64
	FullName string
}

// ByUserID builds a lookup by Telegram user ID.
func ByUserID(userID int64) EmployeeLookup { return EmployeeLookup{UserID: userID} }

// ByFullName builds a lookup by full name.
func ByFullName(fullName string) EmployeeLookup { return EmployeeLookup{FullName: fullName} }
