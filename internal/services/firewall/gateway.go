package firewall

import (
	"cloud-panel/internal/models"
	"cloud-panel/internal/services/provider"
	"cloud-panel/internal/services/settings"
)

// Gateway applies and removes a rule's effect on the cloud provider
// and answers the describe queries the reconciliation loop runs. It
// does not retry and does not touch the store.
type Gateway struct {
	api      provider.API
	settings settings.Provider
}

func NewGateway(api provider.API, sp settings.Provider) *Gateway {
	return &Gateway{api: api, settings: sp}
}

type target struct {
	cfg        provider.Config
	resourceID string
}

// resolveTarget loads the provider settings and picks the resource id
// the rule's action is enforced through.
func (g *Gateway) resolveTarget(action string) (*target, error) {
	st, err := g.settings.Get()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, &ConfigurationError{Reason: "provider account is not configured"}
	}

	t := &target{cfg: provider.Config{
		Endpoint:  st.Endpoint,
		Region:    st.Region,
		AccessKey: st.AccessKey,
		SecretKey: st.SecretKey,
	}}

	switch action {
	case models.ActionDeny:
		if st.NetworkACLID == "" {
			return nil, &ConfigurationError{Reason: "no network ACL configured"}
		}
		t.resourceID = st.NetworkACLID
	default:
		if st.SecurityGroupID == "" {
			return nil, &ConfigurationError{Reason: "no security group configured"}
		}
		t.resourceID = st.SecurityGroupID
	}
	return t, nil
}

// Apply pushes the rule to its mechanism. Allow rules authorize a
// security group entry and treat a duplicate response as success;
// deny rules create or replace the ACL entry at the rule's stable
// slot. Any other provider failure propagates unmodified.
func (g *Gateway) Apply(rule *models.FirewallRule) error {
	t, err := g.resolveTarget(rule.Action)
	if err != nil {
		return err
	}

	if rule.Action == models.ActionDeny {
		entry := denyEntryFor(rule, ruleNumberFor(rule.ID))
		return g.api.ReplaceNetworkACLEntry(t.cfg, t.resourceID, entry)
	}

	err = g.api.AuthorizeSecurityGroupRule(t.cfg, t.resourceID, allowEntryFor(rule))
	if provider.IsDuplicate(err) {
		return nil
	}
	return err
}

// Revoke removes the rule's provider representation. A "not found"
// response means the rule is already absent and counts as success.
func (g *Gateway) Revoke(rule *models.FirewallRule) error {
	t, err := g.resolveTarget(rule.Action)
	if err != nil {
		return err
	}

	if rule.Action == models.ActionDeny {
		err = g.api.DeleteNetworkACLEntry(t.cfg, t.resourceID, ruleNumberFor(rule.ID), rule.IsEgress())
	} else {
		err = g.api.RevokeSecurityGroupRule(t.cfg, t.resourceID, allowEntryFor(rule))
	}
	if provider.IsNotFound(err) {
		return nil
	}
	return err
}

// DescribeAllowList fetches every security group rule in one call.
func (g *Gateway) DescribeAllowList() ([]provider.AllowListEntry, error) {
	t, err := g.resolveTarget(models.ActionAllow)
	if err != nil {
		return nil, err
	}
	return g.api.DescribeSecurityGroupRules(t.cfg, t.resourceID)
}

// DescribeOrderedList fetches every network ACL entry in one call.
func (g *Gateway) DescribeOrderedList() ([]provider.OrderedDenyEntry, error) {
	t, err := g.resolveTarget(models.ActionDeny)
	if err != nil {
		return nil, err
	}
	return g.api.DescribeNetworkACLEntries(t.cfg, t.resourceID)
}

// DeleteOrderedEntry removes a single numbered ACL entry. Exposed for
// operator drift repair; "not found" is success.
func (g *Gateway) DeleteOrderedEntry(ruleNumber int, egress bool) error {
	t, err := g.resolveTarget(models.ActionDeny)
	if err != nil {
		return err
	}
	err = g.api.DeleteNetworkACLEntry(t.cfg, t.resourceID, ruleNumber, egress)
	if provider.IsNotFound(err) {
		return nil
	}
	return err
}
