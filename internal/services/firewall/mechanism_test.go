package firewall

import (
	"testing"

	"cloud-panel/internal/models"
	"cloud-panel/internal/services/provider"

	"github.com/stretchr/testify/assert"
)

func TestRuleNumberStableAndInRange(t *testing.T) {
	first := ruleNumberFor("0b54ab4e-9e3f-4d0a-8e49-1f7a1a1f2a11")
	second := ruleNumberFor("0b54ab4e-9e3f-4d0a-8e49-1f7a1a1f2a11")
	assert.Equal(t, first, second)

	for _, id := range []string{"a", "b", "rule-1", "0b54ab4e"} {
		n := ruleNumberFor(id)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 32766)
	}
}

func TestWidenToCIDR(t *testing.T) {
	assert.Equal(t, "10.0.0.5/32", widenToCIDR("10.0.0.5"))
	assert.Equal(t, "2001:db8::1/128", widenToCIDR("2001:db8::1"))
	assert.Equal(t, "10.0.0.0/24", widenToCIDR("10.0.0.0/24"))
	assert.Equal(t, "::/0", widenToCIDR("::/0"))
}

func TestAllowEntryTranslation(t *testing.T) {
	rule := &models.FirewallRule{
		ID:        "r1",
		Action:    models.ActionAllow,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		PortFrom:  intPtr(22),
		PortTo:    intPtr(22),
	}

	entry := allowEntryFor(rule)
	assert.Equal(t, "tcp", entry.Protocol)
	assert.Equal(t, models.DirectionIngress, entry.Direction)
	assert.Equal(t, 22, *entry.FromPort)
	assert.Equal(t, 22, *entry.ToPort)
	// absent source covers both address families
	assert.Equal(t, []string{"0.0.0.0/0"}, entry.IPRanges)
	assert.Equal(t, []string{"::/0"}, entry.IPv6Ranges)
}

func TestAllowEntryKeepsBareIPUnmodified(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionAllow,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		Source:    "10.0.0.5",
	}

	entry := allowEntryFor(rule)
	assert.Equal(t, []string{"10.0.0.5"}, entry.IPRanges)
	assert.Empty(t, entry.IPv6Ranges)
}

func TestDenyEntryTranslation(t *testing.T) {
	rule := &models.FirewallRule{
		ID:          "r1",
		Action:      models.ActionDeny,
		Direction:   models.DirectionEgress,
		Protocol:    "udp",
		PortFrom:    intPtr(53),
		PortTo:      intPtr(53),
		Source:      "192.168.0.1",
		Destination: "10.0.0.5",
	}

	entry := denyEntryFor(rule, 42)
	assert.Equal(t, 42, entry.RuleNumber)
	assert.Equal(t, "17", entry.Protocol)
	assert.Equal(t, models.ActionDeny, entry.RuleAction)
	assert.True(t, entry.Egress)
	// egress rules use the destination, widened to a host CIDR
	assert.Equal(t, "10.0.0.5/32", entry.CidrBlock)
	assert.Equal(t, &provider.PortRange{From: 53, To: 53}, entry.PortRange)
}

func TestDenyEntryProtocolAll(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionDeny,
		Direction: models.DirectionIngress,
		Protocol:  "all",
	}

	entry := denyEntryFor(rule, 7)
	assert.Equal(t, "-1", entry.Protocol)
	assert.Equal(t, "0.0.0.0/0", entry.CidrBlock)
	assert.Nil(t, entry.PortRange)
}

func TestMatchesAllowEntry(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionAllow,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		PortFrom:  intPtr(22),
		PortTo:    intPtr(22),
	}

	entry := provider.AllowListEntry{
		Protocol:  "tcp",
		FromPort:  intPtr(22),
		ToPort:    intPtr(22),
		IPRanges:  []string{"0.0.0.0/0"},
		Direction: models.DirectionIngress,
	}
	assert.True(t, matchesAllowEntry(rule, entry))

	wrongPorts := entry
	wrongPorts.FromPort = intPtr(23)
	assert.False(t, matchesAllowEntry(rule, wrongPorts))

	wrongDirection := entry
	wrongDirection.Direction = models.DirectionEgress
	assert.False(t, matchesAllowEntry(rule, wrongDirection))
}

func TestMatchesAllowEntryProtocolWildcard(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionAllow,
		Direction: models.DirectionIngress,
		Protocol:  "icmp",
	}

	entry := provider.AllowListEntry{
		Protocol:   "-1",
		IPv6Ranges: []string{"::/0"},
		Direction:  models.DirectionIngress,
	}
	assert.True(t, matchesAllowEntry(rule, entry))
}

func TestMatchesDenyEntryWidensBareIP(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionDeny,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		Source:    "10.0.0.5",
	}

	entry := provider.OrderedDenyEntry{
		RuleNumber: 100,
		Protocol:   "6",
		RuleAction: models.ActionDeny,
		Egress:     false,
		CidrBlock:  "10.0.0.5/32",
	}
	assert.True(t, matchesDenyEntry(rule, entry))
}

func TestMatchesDenyEntryAnyAddress(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionDeny,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
	}

	entry := provider.OrderedDenyEntry{
		Protocol:   "6",
		RuleAction: models.ActionDeny,
		CidrBlock:  "0.0.0.0/0",
	}
	assert.True(t, matchesDenyEntry(rule, entry))
}

func TestMatchesDenyEntryRejectsMismatches(t *testing.T) {
	rule := &models.FirewallRule{
		Action:    models.ActionDeny,
		Direction: models.DirectionIngress,
		Protocol:  "tcp",
		Source:    "10.0.0.5",
	}

	wrongAction := provider.OrderedDenyEntry{
		Protocol:   "6",
		RuleAction: models.ActionAllow,
		CidrBlock:  "10.0.0.5/32",
	}
	assert.False(t, matchesDenyEntry(rule, wrongAction))

	wrongEgress := provider.OrderedDenyEntry{
		Protocol:   "6",
		RuleAction: models.ActionDeny,
		Egress:     true,
		CidrBlock:  "10.0.0.5/32",
	}
	assert.False(t, matchesDenyEntry(rule, wrongEgress))

	wrongCIDR := provider.OrderedDenyEntry{
		Protocol:   "6",
		RuleAction: models.ActionDeny,
		CidrBlock:  "10.0.0.6/32",
	}
	assert.False(t, matchesDenyEntry(rule, wrongCIDR))
}
