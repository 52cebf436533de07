package firewall

import (
	"errors"

	"cloud-panel/internal/models"

	"gorm.io/gorm"
)

// Store persists firewall rules and their sync status. It has no
// provider knowledge; not-found conditions are signalled (nil rule,
// false), never returned as errors, so callers can map them to the
// domain error themselves.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) List() ([]models.FirewallRule, error) {
	var rules []models.FirewallRule
	err := s.db.Order("created_at desc").Find(&rules).Error
	return rules, err
}

func (s *Store) Get(id string) (*models.FirewallRule, error) {
	var rule models.FirewallRule
	err := s.db.First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *Store) Create(rule *models.FirewallRule) error {
	return s.db.Create(rule).Error
}

// Update overwrites the mutable fields of an existing rule. Returns
// nil, nil when the id does not exist.
func (s *Store) Update(id string, rule *models.FirewallRule) (*models.FirewallRule, error) {
	result := s.db.Model(&models.FirewallRule{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        rule.Name,
		"action":      rule.Action,
		"direction":   rule.Direction,
		"protocol":    rule.Protocol,
		"port_from":   rule.PortFrom,
		"port_to":     rule.PortTo,
		"source":      rule.Source,
		"destination": rule.Destination,
		"status":      rule.Status,
		"sync_status": rule.SyncStatus,
		"sync_error":  rule.SyncError,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(id)
}

// Delete removes a rule. Returns false when the id does not exist.
func (s *Store) Delete(id string) (bool, error) {
	result := s.db.Where("id = ?", id).Delete(&models.FirewallRule{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateSyncStatus writes only the reconciliation state of a rule.
func (s *Store) UpdateSyncStatus(id, status, syncError string) error {
	return s.db.Model(&models.FirewallRule{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sync_status": status,
		"sync_error":  syncError,
	}).Error
}
