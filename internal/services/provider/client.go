package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks JSON over HTTPS to the cloud provider's regional
// endpoint. It performs no retries; transient failures surface to the
// caller immediately.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) AuthorizeSecurityGroupRule(cfg Config, groupID string, entry AllowListEntry) error {
	path := fmt.Sprintf("/securityGroups/%s/authorize", url.PathEscape(groupID))
	return c.do(cfg, http.MethodPost, path, entry, nil)
}

func (c *Client) RevokeSecurityGroupRule(cfg Config, groupID string, entry AllowListEntry) error {
	path := fmt.Sprintf("/securityGroups/%s/revoke", url.PathEscape(groupID))
	return c.do(cfg, http.MethodPost, path, entry, nil)
}

func (c *Client) DescribeSecurityGroupRules(cfg Config, groupID string) ([]AllowListEntry, error) {
	path := fmt.Sprintf("/securityGroups/%s/rules", url.PathEscape(groupID))
	var out struct {
		Rules []AllowListEntry `json:"rules"`
	}
	if err := c.do(cfg, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Rules, nil
}

func (c *Client) ReplaceNetworkACLEntry(cfg Config, aclID string, entry OrderedDenyEntry) error {
	path := fmt.Sprintf("/networkAcls/%s/entries/%d", url.PathEscape(aclID), entry.RuleNumber)
	return c.do(cfg, http.MethodPut, path, entry, nil)
}

func (c *Client) DeleteNetworkACLEntry(cfg Config, aclID string, ruleNumber int, egress bool) error {
	path := fmt.Sprintf("/networkAcls/%s/entries/%d?egress=%s",
		url.PathEscape(aclID), ruleNumber, strconv.FormatBool(egress))
	return c.do(cfg, http.MethodDelete, path, nil, nil)
}

func (c *Client) DescribeNetworkACLEntries(cfg Config, aclID string) ([]OrderedDenyEntry, error) {
	path := fmt.Sprintf("/networkAcls/%s/entries", url.PathEscape(aclID))
	var out struct {
		Entries []OrderedDenyEntry `json:"entries"`
	}
	if err := c.do(cfg, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) do(cfg Config, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	reqURL := fmt.Sprintf("%s/%s%s", cfg.Endpoint, url.PathEscape(cfg.Region), path)
	req, err := http.NewRequest(method, reqURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Key", cfg.AccessKey)
	req.Header.Set("X-Secret-Key", cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = string(raw)
	}
	return apiErr
}
