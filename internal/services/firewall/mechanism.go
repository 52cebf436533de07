package firewall

import (
	"hash/fnv"
	"strings"

	"cloud-panel/internal/models"
	"cloud-panel/internal/services/provider"
)

// The two enforcement mechanisms translate and match rules
// differently. Everything mechanism-specific (protocol code tables,
// address widening) lives here so apply, revoke and the
// reconciliation membership test cannot drift apart.

const (
	anyIPv4 = "0.0.0.0/0"
	anyIPv6 = "::/0"
)

// maxRuleNumber is the top of the provider's valid ACL entry range.
const maxRuleNumber = 32766

// Protocol codes per mechanism. The security group API takes symbolic
// names, the network ACL API takes IANA protocol numbers. "-1" is the
// any-protocol wildcard on both.
var (
	allowProtocolCodes = map[string]string{
		"tcp":  "tcp",
		"udp":  "udp",
		"icmp": "icmp",
		"all":  "-1",
	}
	denyProtocolCodes = map[string]string{
		"tcp":  "6",
		"udp":  "17",
		"icmp": "1",
		"all":  "-1",
	}
)

func isIPv6(addr string) bool {
	return strings.Contains(addr, ":")
}

// widenToCIDR turns a bare IP into a single-host CIDR. The network
// ACL API only accepts CIDR blocks; the security group API takes the
// address as given.
func widenToCIDR(addr string) string {
	if strings.Contains(addr, "/") {
		return addr
	}
	if isIPv6(addr) {
		return addr + "/128"
	}
	return addr + "/32"
}

// candidateAddresses returns the address expressions that count as a
// match for the rule. An absent address means "any", which the
// provider represents as the v4 and v6 full ranges.
func candidateAddresses(rule *models.FirewallRule) []string {
	addr := rule.Address()
	if addr == "" {
		return []string{anyIPv4, anyIPv6}
	}
	return []string{addr}
}

// ruleNumberFor derives the ACL slot for a rule deterministically
// from its id, so updates replace the same numbered entry instead of
// accumulating new ones.
func ruleNumberFor(id string) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32()%maxRuleNumber) + 1
}

// --- allow-list (security group) variant ---

func allowEntryFor(rule *models.FirewallRule) provider.AllowListEntry {
	entry := provider.AllowListEntry{
		Protocol:  allowProtocolCodes[rule.Protocol],
		Direction: rule.Direction,
	}
	if rule.HasPorts() {
		entry.FromPort = rule.PortFrom
		entry.ToPort = rule.PortTo
	}

	addr := rule.Address()
	switch {
	case addr == "":
		entry.IPRanges = []string{anyIPv4}
		entry.IPv6Ranges = []string{anyIPv6}
	case isIPv6(addr):
		entry.IPv6Ranges = []string{addr}
	default:
		entry.IPRanges = []string{addr}
	}
	return entry
}

func matchesAllowEntry(rule *models.FirewallRule, entry provider.AllowListEntry) bool {
	if entry.Direction != rule.Direction {
		return false
	}
	code := allowProtocolCodes[rule.Protocol]
	if entry.Protocol != code && entry.Protocol != "-1" {
		return false
	}
	if rule.Protocol == "tcp" || rule.Protocol == "udp" {
		if !portsEqual(entry.FromPort, rule.PortFrom) || !portsEqual(entry.ToPort, rule.PortTo) {
			return false
		}
	}
	for _, candidate := range candidateAddresses(rule) {
		if containsAddress(entry.IPRanges, candidate) || containsAddress(entry.IPv6Ranges, candidate) {
			return true
		}
	}
	return false
}

func portsEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func containsAddress(ranges []string, addr string) bool {
	for _, r := range ranges {
		if r == addr {
			return true
		}
	}
	return false
}

// --- ordered deny-list (network ACL) variant ---

func denyEntryFor(rule *models.FirewallRule, ruleNumber int) provider.OrderedDenyEntry {
	entry := provider.OrderedDenyEntry{
		RuleNumber: ruleNumber,
		Protocol:   denyProtocolCodes[rule.Protocol],
		RuleAction: rule.Action,
		Egress:     rule.IsEgress(),
	}

	addr := rule.Address()
	switch {
	case addr == "":
		entry.CidrBlock = anyIPv4
	case isIPv6(addr):
		entry.Ipv6CidrBlock = widenToCIDR(addr)
	default:
		entry.CidrBlock = widenToCIDR(addr)
	}

	if rule.HasPorts() {
		entry.PortRange = &provider.PortRange{From: *rule.PortFrom, To: *rule.PortTo}
	}
	return entry
}

func matchesDenyEntry(rule *models.FirewallRule, entry provider.OrderedDenyEntry) bool {
	if entry.Egress != rule.IsEgress() {
		return false
	}
	code := denyProtocolCodes[rule.Protocol]
	if entry.Protocol != code && entry.Protocol != "-1" {
		return false
	}
	if entry.RuleAction != rule.Action {
		return false
	}

	addr := rule.Address()
	if addr == "" {
		return entry.CidrBlock == anyIPv4 || entry.Ipv6CidrBlock == anyIPv6
	}
	cidr := widenToCIDR(addr)
	if isIPv6(addr) {
		return entry.Ipv6CidrBlock == cidr
	}
	return entry.CidrBlock == cidr
}
