package models

// GameProfile is the summary shown on the game screen of an employee.
type GameProfile struct {
	LedgerSummary
	IsBuyer           bool `json:"is_buyer"`
	CasinoAllowed     bool `json:"casino_allowed"`
	ActivationsAccess bool `json:"activations_access"`
}
