package model

// Maximum encoded sizes per record type, in bytes.
const (
	MaxUserSize           = 512
	MaxPharmaceuticalSize = 1024
	MaxEventSize          = 1024
	MaxRewardSize         = 512
)

// User is a registered participant with a role.
type User struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Pharmaceutical is a cataloged batch. UserID is the admin who created it.
type Pharmaceutical struct {
	ID           uint64 `json:"id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	BatchNumber  string `json:"batch_number"`
	ExpiryDate   uint64 `json:"expiry_date"` // ns since epoch; stored, never enforced
}

// SupplyChainEvent records something that happened to a pharmaceutical batch.
type SupplyChainEvent struct {
	ID               uint64    `json:"id"`
	PharmaceuticalID uint64    `json:"pharmaceutical_id"`
	EventType        EventType `json:"event_type"`
	Location         string    `json:"location"`
	Date             uint64    `json:"date"` // ns since epoch, stamped at insert
	Participant      string    `json:"participant"`
}

// Reward is a points record for a participant.
type Reward struct {
	ID          uint64     `json:"id"`
	Participant string     `json:"participant"` // free text, not a user reference
	Points      uint32     `json:"points"`
	RewardType  RewardType `json:"reward_type"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (u User) MarshalBinary() ([]byte, error) { return marshalRecord("user", u, MaxUserSize) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (u *User) UnmarshalBinary(data []byte) error {
	return unmarshalRecord("user", data, MaxUserSize, u)
}

// MaxSize returns the largest encoding a User may have.
func (User) MaxSize() int { return MaxUserSize }

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Pharmaceutical) MarshalBinary() ([]byte, error) {
	return marshalRecord("pharmaceutical", p, MaxPharmaceuticalSize)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Pharmaceutical) UnmarshalBinary(data []byte) error {
	return unmarshalRecord("pharmaceutical", data, MaxPharmaceuticalSize, p)
}

// MaxSize returns the largest encoding a Pharmaceutical may have.
func (Pharmaceutical) MaxSize() int { return MaxPharmaceuticalSize }

// MarshalBinary implements encoding.BinaryMarshaler.
func (e SupplyChainEvent) MarshalBinary() ([]byte, error) {
	return marshalRecord("supply chain event", e, MaxEventSize)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *SupplyChainEvent) UnmarshalBinary(data []byte) error {
	return unmarshalRecord("supply chain event", data, MaxEventSize, e)
}

// MaxSize returns the largest encoding a SupplyChainEvent may have.
func (SupplyChainEvent) MaxSize() int { return MaxEventSize }

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Reward) MarshalBinary() ([]byte, error) { return marshalRecord("reward", r, MaxRewardSize) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Reward) UnmarshalBinary(data []byte) error {
	return unmarshalRecord("reward", data, MaxRewardSize, r)
}

// MaxSize returns the largest encoding a Reward may have.
func (Reward) MaxSize() int { return MaxRewardSize }
