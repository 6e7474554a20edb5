package model

import (
	"fmt"
	"strings"
)

// Role is a user's role.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleManufacturer Role = "Manufacturer"
	RoleDistributor  Role = "Distributor"
	RoleViewer       Role = "Viewer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManufacturer, RoleDistributor, RoleViewer}

// ParseRole returns the role named s. Matching is case-insensitive.
// There is no default role: an empty name is an error.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q: must be one of %v", s, Roles)
}

// EventType is the kind of supply-chain event.
type EventType string

const (
	EventProduction     EventType = "Production"
	EventPackaging      EventType = "Packaging"
	EventStorage        EventType = "Storage"
	EventTransportation EventType = "Transportation"
	EventDelivery       EventType = "Delivery"
)

// EventTypes lists every valid event type.
var EventTypes = []EventType{EventProduction, EventPackaging, EventStorage, EventTransportation, EventDelivery}

// ParseEventType returns the event type named s. An empty name yields
// EventProduction.
func ParseEventType(s string) (EventType, error) {
	if s == "" {
		return EventProduction, nil
	}
	for _, e := range EventTypes {
		if strings.EqualFold(string(e), s) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown event type %q: must be one of %v", s, EventTypes)
}

// RewardType is the reason a reward was issued.
type RewardType string

const (
	RewardSupplyChainEvent RewardType = "SupplyChainEvent"
	RewardOther            RewardType = "Other"
)

// RewardTypes lists every valid reward type.
var RewardTypes = []RewardType{RewardSupplyChainEvent, RewardOther}

// ParseRewardType returns the reward type named s. An empty name yields
// RewardSupplyChainEvent.
func ParseRewardType(s string) (RewardType, error) {
	if s == "" {
		return RewardSupplyChainEvent, nil
	}
	for _, r := range RewardTypes {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown reward type %q: must be one of %v", s, RewardTypes)
}
