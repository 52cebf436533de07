package firewall

import (
	"testing"

	"cloud-panel/internal/models"
	"cloud-panel/internal/services/provider"
	"cloud-panel/internal/services/settings"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FirewallRule{}, &models.Setting{}))
	return db
}

// MockAPI is a mock implementation of the provider.API interface
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) AuthorizeSecurityGroupRule(cfg provider.Config, groupID string, entry provider.AllowListEntry) error {
	args := m.Called(cfg, groupID, entry)
	return args.Error(0)
}

func (m *MockAPI) RevokeSecurityGroupRule(cfg provider.Config, groupID string, entry provider.AllowListEntry) error {
	args := m.Called(cfg, groupID, entry)
	return args.Error(0)
}

func (m *MockAPI) DescribeSecurityGroupRules(cfg provider.Config, groupID string) ([]provider.AllowListEntry, error) {
	args := m.Called(cfg, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.AllowListEntry), args.Error(1)
}

func (m *MockAPI) ReplaceNetworkACLEntry(cfg provider.Config, aclID string, entry provider.OrderedDenyEntry) error {
	args := m.Called(cfg, aclID, entry)
	return args.Error(0)
}

func (m *MockAPI) DeleteNetworkACLEntry(cfg provider.Config, aclID string, ruleNumber int, egress bool) error {
	args := m.Called(cfg, aclID, ruleNumber, egress)
	return args.Error(0)
}

func (m *MockAPI) DescribeNetworkACLEntries(cfg provider.Config, aclID string) ([]provider.OrderedDenyEntry, error) {
	args := m.Called(cfg, aclID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.OrderedDenyEntry), args.Error(1)
}

// MockEnforcer is a mock implementation of the Enforcer interface
type MockEnforcer struct {
	mock.Mock
}

func (m *MockEnforcer) Apply(rule *models.FirewallRule) error {
	args := m.Called(rule)
	return args.Error(0)
}

func (m *MockEnforcer) Revoke(rule *models.FirewallRule) error {
	args := m.Called(rule)
	return args.Error(0)
}

// MockDescriber is a mock implementation of the Describer interface
type MockDescriber struct {
	mock.Mock
}

func (m *MockDescriber) DescribeAllowList() ([]provider.AllowListEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.AllowListEntry), args.Error(1)
}

func (m *MockDescriber) DescribeOrderedList() ([]provider.OrderedDenyEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.OrderedDenyEntry), args.Error(1)
}

// stubSettings hands out fixed provider settings
type stubSettings struct {
	ps  *settings.ProviderSettings
	err error
}

func (s stubSettings) Get() (*settings.ProviderSettings, error) {
	return s.ps, s.err
}

func fullSettings() *settings.ProviderSettings {
	return &settings.ProviderSettings{
		Endpoint:        "https://api.cloud.example",
		Region:          "eu-west-1",
		AccessKey:       "ak",
		SecretKey:       "sk",
		SecurityGroupID: "sg-123",
		NetworkACLID:    "acl-456",
	}
}

func intPtr(v int) *int {
	return &v
}
