package firewall

import (
	"testing"

	"cloud-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRule(t *testing.T, store *Store, rule *models.FirewallRule) *models.FirewallRule {
	t.Helper()
	if rule.Status == "" {
		rule.Status = models.RuleEnabled
	}
	if rule.SyncStatus == "" {
		rule.SyncStatus = models.SyncPending
	}
	require.NoError(t, store.Create(rule))
	return rule
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(testDB(t))

	seedRule(t, store, &models.FirewallRule{
		ID:        "rule-1",
		Name:      "ssh",
		Action:    models.ActionAllow,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		PortFrom:  intPtr(22),
		PortTo:    intPtr(22),
	})

	got, err := store.Get("rule-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ssh", got.Name)
	assert.Equal(t, models.SyncPending, got.SyncStatus)
	assert.Equal(t, 22, *got.PortFrom)
}

func TestStoreGetMissingReturnsNil(t *testing.T) {
	store := NewStore(testDB(t))

	got, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreUpdateMissingReturnsNil(t *testing.T) {
	store := NewStore(testDB(t))

	updated, err := store.Update("missing", &models.FirewallRule{Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestStoreUpdateOverwritesFields(t *testing.T) {
	store := NewStore(testDB(t))
	rule := seedRule(t, store, &models.FirewallRule{
		ID:        "rule-1",
		Name:      "old",
		Action:    models.ActionDeny,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		Source:    "10.0.0.5",
	})

	rule.Name = "new"
	rule.Source = "10.0.0.0/24"
	rule.SyncStatus = models.SyncSynced
	updated, err := store.Update(rule.ID, rule)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Name)
	assert.Equal(t, "10.0.0.0/24", updated.Source)
	assert.Equal(t, models.SyncSynced, updated.SyncStatus)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(testDB(t))
	seedRule(t, store, &models.FirewallRule{ID: "rule-1", Name: "r", Action: models.ActionAllow, Direction: models.DirectionIngress, Protocol: "tcp"})

	ok, err := store.Delete("rule-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete("rule-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreUpdateSyncStatus(t *testing.T) {
	store := NewStore(testDB(t))
	seedRule(t, store, &models.FirewallRule{ID: "rule-1", Name: "r", Action: models.ActionAllow, Direction: models.DirectionIngress, Protocol: "tcp"})

	require.NoError(t, store.UpdateSyncStatus("rule-1", models.SyncFailed, "rule not found in provider"))

	got, err := store.Get("rule-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, got.SyncStatus)
	assert.Equal(t, "rule not found in provider", got.SyncError)

	require.NoError(t, store.UpdateSyncStatus("rule-1", models.SyncSynced, ""))
	got, err = store.Get("rule-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncSynced, got.SyncStatus)
	assert.Empty(t, got.SyncError)
}
