package models

import (
	"time"
)

// Rule actions select the enforcement mechanism: allow rules live in
// the provider security group, deny rules in the provider network ACL.
const (
	ActionAllow = "allow"
	ActionDeny  = "deny"
)

const (
	DirectionIngress = "ingress"
	DirectionEgress  = "egress"
)

const (
	RuleEnabled  = "enabled"
	RuleDisabled = "disabled"
)

// Sync status values. Owned by the firewall service and the
// reconciliation loop; API clients never set these directly.
const (
	SyncPending       = "pending"
	SyncSynced        = "synced"
	SyncFailed        = "failed"
	SyncNotApplicable = "not_applicable"
)

type FirewallRule struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Action      string    `json:"action" gorm:"size:10;not null"`
	Direction   string    `json:"direction" gorm:"size:10;not null"`
	Protocol    string    `json:"protocol" gorm:"size:10;not null"`
	PortFrom    *int      `json:"port_from"`
	PortTo      *int      `json:"port_to"`
	Source      string    `json:"source" gorm:"size:64"`
	Destination string    `json:"destination" gorm:"size:64"`
	Status      string    `json:"status" gorm:"size:10;default:'enabled'"`
	SyncStatus  string    `json:"sync_status" gorm:"size:20;default:'pending'"`
	SyncError   string    `json:"sync_error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Address returns the address expression that is active for the rule's
// direction: source for ingress, destination for egress. Empty means
// "any address".
func (r *FirewallRule) Address() string {
	if r.Direction == DirectionEgress {
		return r.Destination
	}
	return r.Source
}

func (r *FirewallRule) IsEgress() bool {
	return r.Direction == DirectionEgress
}

// HasPorts reports whether the port range is meaningful for the rule's
// protocol.
func (r *FirewallRule) HasPorts() bool {
	return (r.Protocol == "tcp" || r.Protocol == "udp") && r.PortFrom != nil && r.PortTo != nil
}
