package settings

import (
	"cloud-panel/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Setting keys for the cloud provider account and target resources.
const (
	keyEndpoint        = "provider.endpoint"
	keyRegion          = "provider.region"
	keyAccessKey       = "provider.access_key"
	keySecretKey       = "provider.secret_key"
	keySecurityGroupID = "provider.security_group_id"
	keyNetworkACLID    = "provider.network_acl_id"
)

// ProviderSettings is everything needed to address the provider's
// enforcement surface. SecurityGroupID and NetworkACLID may each be
// empty; a rule whose mechanism has no target id is not applicable.
type ProviderSettings struct {
	Endpoint        string `json:"endpoint"`
	Region          string `json:"region"`
	AccessKey       string `json:"access_key"`
	SecretKey       string `json:"secret_key"`
	SecurityGroupID string `json:"security_group_id"`
	NetworkACLID    string `json:"network_acl_id"`
}

// Provider hands out the current provider settings. The firewall
// gateway and the reconciliation loop consume this interface.
type Provider interface {
	Get() (*ProviderSettings, error)
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the stored provider settings, or nil when the endpoint
// or credentials have not been configured yet.
func (s *Service) Get() (*ProviderSettings, error) {
	var rows []models.Setting
	if err := s.db.Where("key LIKE ?", "provider.%").Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	ps := &ProviderSettings{
		Endpoint:        values[keyEndpoint],
		Region:          values[keyRegion],
		AccessKey:       values[keyAccessKey],
		SecretKey:       values[keySecretKey],
		SecurityGroupID: values[keySecurityGroupID],
		NetworkACLID:    values[keyNetworkACLID],
	}
	if ps.Endpoint == "" || ps.AccessKey == "" || ps.SecretKey == "" {
		return nil, nil
	}
	return ps, nil
}

// Save upserts the provider settings into the settings table.
func (s *Service) Save(ps *ProviderSettings) error {
	values := map[string]string{
		keyEndpoint:        ps.Endpoint,
		keyRegion:          ps.Region,
		keyAccessKey:       ps.AccessKey,
		keySecretKey:       ps.SecretKey,
		keySecurityGroupID: ps.SecurityGroupID,
		keyNetworkACLID:    ps.NetworkACLID,
	}

	for key, value := range values {
		row := models.Setting{Key: key, Value: value}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}
