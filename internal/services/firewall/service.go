package firewall

import (
	"log"

	"cloud-panel/internal/models"

	"github.com/google/uuid"
)

// Enforcer is the slice of the gateway the service needs. Split out
// so tests can substitute a mock.
type Enforcer interface {
	Apply(rule *models.FirewallRule) error
	Revoke(rule *models.FirewallRule) error
}

// Service orchestrates rule mutations. The provider call always
// precedes the store write on create and update, so the store never
// records a rule the provider rejected.
type Service struct {
	store *Store
	gw    Enforcer
}

func NewService(store *Store, gw Enforcer) *Service {
	return &Service{store: store, gw: gw}
}

// RuleInput carries the client-settable rule fields. Sync status is
// never part of it.
type RuleInput struct {
	Name        string
	Action      string
	Direction   string
	Protocol    string
	PortFrom    *int
	PortTo      *int
	Source      string
	Destination string
	Status      string
}

// UpdateRuleInput is a partial RuleInput; nil fields keep the stored
// value.
type UpdateRuleInput struct {
	Name        *string
	Action      *string
	Direction   *string
	Protocol    *string
	PortFrom    *int
	PortTo      *int
	Source      *string
	Destination *string
	Status      *string
}

func (s *Service) List() ([]models.FirewallRule, error) {
	return s.store.List()
}

func (s *Service) Get(id string) (*models.FirewallRule, error) {
	rule, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) Create(in RuleInput) (*models.FirewallRule, error) {
	rule := &models.FirewallRule{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Action:      in.Action,
		Direction:   in.Direction,
		Protocol:    in.Protocol,
		PortFrom:    in.PortFrom,
		PortTo:      in.PortTo,
		Source:      in.Source,
		Destination: in.Destination,
		Status:      in.Status,
		SyncStatus:  models.SyncPending,
	}
	if rule.Status == "" {
		rule.Status = models.RuleEnabled
	}

	if rule.Status == models.RuleDisabled {
		rule.SyncStatus = models.SyncNotApplicable
		rule.SyncError = "rule is disabled"
	} else {
		if err := s.gw.Apply(rule); err != nil {
			return nil, err
		}
		rule.SyncStatus = models.SyncSynced
	}

	if err := s.store.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) Update(id string, in UpdateRuleInput) (*models.FirewallRule, error) {
	existing, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRuleNotFound
	}

	merged := *existing
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Action != nil {
		merged.Action = *in.Action
	}
	if in.Direction != nil {
		merged.Direction = *in.Direction
	}
	if in.Protocol != nil {
		merged.Protocol = *in.Protocol
	}
	if in.PortFrom != nil {
		merged.PortFrom = in.PortFrom
	}
	if in.PortTo != nil {
		merged.PortTo = in.PortTo
	}
	if in.Source != nil {
		merged.Source = *in.Source
	}
	if in.Destination != nil {
		merged.Destination = *in.Destination
	}
	if in.Status != nil {
		merged.Status = *in.Status
	}

	// The old provider entry may already have drifted away, so a
	// failed revoke is logged and the update continues.
	if existing.Status == models.RuleEnabled {
		if err := s.gw.Revoke(existing); err != nil {
			log.Printf("firewall: revoke of old representation for rule %s failed: %v", id, err)
		}
	}

	if merged.Status == models.RuleDisabled {
		merged.SyncStatus = models.SyncNotApplicable
		merged.SyncError = "rule is disabled"
	} else {
		if err := s.gw.Apply(&merged); err != nil {
			return nil, err
		}
		merged.SyncStatus = models.SyncSynced
		merged.SyncError = ""
	}

	updated, err := s.store.Update(id, &merged)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRuleNotFound
	}
	return updated, nil
}

// Delete removes the store row first and then revokes the provider
// entry best-effort. A failed revoke can leave an orphaned provider
// entry; the manual ACL entry endpoint exists to clean those up.
func (s *Service) Delete(id string) error {
	existing, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrRuleNotFound
	}

	ok, err := s.store.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRuleNotFound
	}

	if existing.Status == models.RuleEnabled {
		if err := s.gw.Revoke(existing); err != nil {
			log.Printf("firewall: revoke after delete of rule %s failed: %v", id, err)
		}
	}
	return nil
}
