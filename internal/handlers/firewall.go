package handlers

import (
	"errors"

	"cloud-panel/internal/services/firewall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type FirewallRuleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Action      string `json:"action" validate:"required,oneof=allow deny"`
	Direction   string `json:"direction" validate:"required,oneof=ingress egress"`
	Protocol    string `json:"protocol" validate:"required,oneof=tcp udp icmp all"`
	PortFrom    *int   `json:"port_from" validate:"omitempty,min=0,max=65535"`
	PortTo      *int   `json:"port_to" validate:"omitempty,min=0,max=65535"`
	Source      string `json:"source" validate:"omitempty,ip|cidr"`
	Destination string `json:"destination" validate:"omitempty,ip|cidr"`
	Status      string `json:"status" validate:"omitempty,oneof=enabled disabled"`
}

type FirewallRuleUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Action      *string `json:"action" validate:"omitempty,oneof=allow deny"`
	Direction   *string `json:"direction" validate:"omitempty,oneof=ingress egress"`
	Protocol    *string `json:"protocol" validate:"omitempty,oneof=tcp udp icmp all"`
	PortFrom    *int    `json:"port_from" validate:"omitempty,min=0,max=65535"`
	PortTo      *int    `json:"port_to" validate:"omitempty,min=0,max=65535"`
	Source      *string `json:"source" validate:"omitempty,ip|cidr"`
	Destination *string `json:"destination" validate:"omitempty,ip|cidr"`
	Status      *string `json:"status" validate:"omitempty,oneof=enabled disabled"`
}

// firewallError maps service errors onto HTTP statuses: 404 for
// unknown rule ids, 409 for missing provider configuration, 502 for
// provider failures.
func firewallError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, firewall.ErrRuleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rule not found",
		})
	case firewall.IsConfigurationError(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

// GetFirewallRules returns all stored rules with their sync status
func GetFirewallRules(svc *firewall.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rules, err := svc.List()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(rules)
	}
}

// GetFirewallRule returns a single rule by id
func GetFirewallRule(svc *firewall.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rule, err := svc.Get(c.Params("id"))
		if err != nil {
			return firewallError(c, err)
		}
		return c.JSON(rule)
	}
}

// AddFirewallRule creates a rule and pushes it to the provider
func AddFirewallRule(svc *firewall.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req FirewallRuleRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		rule, err := svc.Create(firewall.RuleInput{
			Name:        req.Name,
			Action:      req.Action,
			Direction:   req.Direction,
			Protocol:    req.Protocol,
			PortFrom:    req.PortFrom,
			PortTo:      req.PortTo,
			Source:      req.Source,
			Destination: req.Destination,
			Status:      req.Status,
		})
		if err != nil {
			return firewallError(c, err)
		}

		logActivity(c, "firewall.rule.create", rule.ID)
		return c.Status(fiber.StatusCreated).JSON(rule)
	}
}

// UpdateFirewallRule replaces a rule's provider representation and
// persists the merged fields
func UpdateFirewallRule(svc *firewall.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req FirewallRuleUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		rule, err := svc.Update(c.Params("id"), firewall.UpdateRuleInput{
			Name:        req.Name,
			Action:      req.Action,
			Direction:   req.Direction,
			Protocol:    req.Protocol,
			PortFrom:    req.PortFrom,
			PortTo:      req.PortTo,
			Source:      req.Source,
			Destination: req.Destination,
			Status:      req.Status,
		})
		if err != nil {
			return firewallError(c, err)
		}

		logActivity(c, "firewall.rule.update", rule.ID)
		return c.JSON(rule)
	}
}

// DeleteFirewallRule removes a rule and revokes it from the provider
func DeleteFirewallRule(svc *firewall.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := svc.Delete(id); err != nil {
			return firewallError(c, err)
		}

		logActivity(c, "firewall.rule.delete", id)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Rule deleted",
		})
	}
}

// SyncFirewallRules runs one reconciliation cycle now and returns the
// summary
func SyncFirewallRules(rec *firewall.Reconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(rec.RunCycle())
	}
}

// GetProviderState dumps the described provider state for operator
// visibility
func GetProviderState(gw *firewall.Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowList, err := gw.DescribeAllowList()
		if err != nil && !firewall.IsConfigurationError(err) {
			return firewallError(c, err)
		}
		orderedList, err := gw.DescribeOrderedList()
		if err != nil && !firewall.IsConfigurationError(err) {
			return firewallError(c, err)
		}
		return c.JSON(fiber.Map{
			"security_group_rules": allowList,
			"network_acl_entries":  orderedList,
		})
	}
}

// DeleteACLEntry removes a single numbered network ACL entry, for
// manual drift repair
func DeleteACLEntry(gw *firewall.Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ruleNumber, err := c.ParamsInt("number")
		if err != nil || ruleNumber < 1 || ruleNumber > 32766 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Rule number must be between 1 and 32766",
			})
		}
		egress := c.QueryBool("egress", false)

		if err := gw.DeleteOrderedEntry(ruleNumber, egress); err != nil {
			return firewallError(c, err)
		}

		logActivity(c, "firewall.acl_entry.delete", c.Params("number"))
		return c.JSON(fiber.Map{
			"success": true,
			"message": "ACL entry deleted",
		})
	}
}
