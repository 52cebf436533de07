package provider

// Config addresses one regional provider account. Assembled by the
// enforcement gateway from the stored panel settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// AllowListEntry is one security group rule as the provider reports
// it. Security group rules are an unordered set; membership is a
// containment check.
type AllowListEntry struct {
	Protocol   string   `json:"protocol"`
	FromPort   *int     `json:"from_port,omitempty"`
	ToPort     *int     `json:"to_port,omitempty"`
	IPRanges   []string `json:"ip_ranges"`
	IPv6Ranges []string `json:"ipv6_ranges"`
	Direction  string   `json:"direction"`
}

// OrderedDenyEntry is one numbered network ACL entry. The provider
// evaluates entries in ascending rule number order, first match wins.
// Rule numbers are unique per direction within [1, 32766].
type OrderedDenyEntry struct {
	RuleNumber    int        `json:"rule_number"`
	Protocol      string     `json:"protocol"`
	RuleAction    string     `json:"rule_action"`
	Egress        bool       `json:"egress"`
	CidrBlock     string     `json:"cidr_block,omitempty"`
	Ipv6CidrBlock string     `json:"ipv6_cidr_block,omitempty"`
	PortRange     *PortRange `json:"port_range,omitempty"`
}

type PortRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// API is the provider enforcement surface consumed by the gateway.
// One implementation talks to the real cloud API; tests substitute a
// mock.
type API interface {
	AuthorizeSecurityGroupRule(cfg Config, groupID string, entry AllowListEntry) error
	RevokeSecurityGroupRule(cfg Config, groupID string, entry AllowListEntry) error
	DescribeSecurityGroupRules(cfg Config, groupID string) ([]AllowListEntry, error)

	ReplaceNetworkACLEntry(cfg Config, aclID string, entry OrderedDenyEntry) error
	DeleteNetworkACLEntry(cfg Config, aclID string, ruleNumber int, egress bool) error
	DescribeNetworkACLEntries(cfg Config, aclID string) ([]OrderedDenyEntry, error)
}
