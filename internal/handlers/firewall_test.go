package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"cloud-panel/internal/database"
	"cloud-panel/internal/models"
	"cloud-panel/internal/services/firewall"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubEnforcer struct {
	applyErr  error
	revokeErr error
}

func (s *stubEnforcer) Apply(*models.FirewallRule) error  { return s.applyErr }
func (s *stubEnforcer) Revoke(*models.FirewallRule) error { return s.revokeErr }

func testApp(t *testing.T) (*fiber.App, *firewall.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FirewallRule{}, &models.ActivityLog{}))
	database.DB = db

	svc := firewall.NewService(firewall.NewStore(db), &stubEnforcer{})

	app := fiber.New()
	app.Get("/api/firewall/rules", GetFirewallRules(svc))
	app.Post("/api/firewall/rules", AddFirewallRule(svc))
	app.Get("/api/firewall/rules/:id", GetFirewallRule(svc))
	app.Delete("/api/firewall/rules/:id", DeleteFirewallRule(svc))
	return app, svc
}

func TestAddFirewallRuleValidation(t *testing.T) {
	app, _ := testApp(t)

	cases := []map[string]interface{}{
		{"name": "bad-action", "action": "drop", "direction": "ingress", "protocol": "tcp"},
		{"name": "bad-protocol", "action": "allow", "direction": "ingress", "protocol": "gre"},
		{"name": "bad-port", "action": "allow", "direction": "ingress", "protocol": "tcp", "port_from": 70000},
		{"name": "bad-address", "action": "allow", "direction": "ingress", "protocol": "tcp", "source": "not-an-ip"},
		{"action": "allow", "direction": "ingress", "protocol": "tcp"},
	}

	for _, body := range cases {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", "/api/firewall/rules", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %v", body)
	}
}

func TestAddFirewallRuleCreates(t *testing.T) {
	app, _ := testApp(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":      "ssh",
		"action":    "allow",
		"direction": "ingress",
		"protocol":  "tcp",
		"port_from": 22,
		"port_to":   22,
	})
	req := httptest.NewRequest("POST", "/api/firewall/rules", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rule models.FirewallRule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rule))
	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, models.SyncSynced, rule.SyncStatus)
}

func TestGetFirewallRuleNotFound(t *testing.T) {
	app, _ := testApp(t)

	req := httptest.NewRequest("GET", "/api/firewall/rules/missing-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteFirewallRuleNotFound(t *testing.T) {
	app, _ := testApp(t)

	req := httptest.NewRequest("DELETE", "/api/firewall/rules/missing-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
