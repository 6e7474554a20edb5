package model

import "golang.org/x/text/unicode/norm"

// UserPayload is the input to Create User.
type UserPayload struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// PharmaceuticalPayload is the input to Create Pharmaceutical.
type PharmaceuticalPayload struct {
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	BatchNumber  string `json:"batch_number"`
	ExpiryDate   uint64 `json:"expiry_date"`
}

// EventPayload is the input to Create SupplyChainEvent.
// The event date is not part of the payload; the ledger stamps it.
type EventPayload struct {
	PharmaceuticalID uint64    `json:"pharmaceutical_id"`
	EventType        EventType `json:"event_type"`
	Location         string    `json:"location"`
	Participant      string    `json:"participant"`
}

// RewardPayload is the input to Create Reward.
type RewardPayload struct {
	Participant string     `json:"participant"`
	Points      uint32     `json:"points"`
	RewardType  RewardType `json:"reward_type"`
}

// Normalize returns a copy with text fields NFC-normalized.
func (p UserPayload) Normalize() UserPayload {
	p.Username = norm.NFC.String(p.Username)
	return p
}

// Normalize returns a copy with text fields NFC-normalized.
func (p PharmaceuticalPayload) Normalize() PharmaceuticalPayload {
	p.Name = norm.NFC.String(p.Name)
	p.Manufacturer = norm.NFC.String(p.Manufacturer)
	p.BatchNumber = norm.NFC.String(p.BatchNumber)
	return p
}

// Normalize returns a copy with text fields NFC-normalized.
func (p EventPayload) Normalize() EventPayload {
	p.Location = norm.NFC.String(p.Location)
	p.Participant = norm.NFC.String(p.Participant)
	return p
}

// Normalize returns a copy with text fields NFC-normalized.
func (p RewardPayload) Normalize() RewardPayload {
	p.Participant = norm.NFC.String(p.Participant)
	return p
}
