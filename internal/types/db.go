package types

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// LockScope represents the scope of a database advisory lock
type LockScope string

const (
	// LockScopeLease serializes lifecycle mutations of a single lease
	LockScopeLease LockScope = "lease"
)

const defaultLockTimeout = 30 * time.Second

// LockRequest describes an advisory lock to take inside a transaction
type LockRequest struct {
	Key string
	// Timeout nil means the default; zero or negative means fail fast
	Timeout *time.Duration
}

// GetTimeout returns the effective lock timeout
func (r LockRequest) GetTimeout() time.Duration {
	if r.Timeout == nil {
		return defaultLockTimeout
	}
	return *r.Timeout
}

// GenerateLockKey builds a deterministic key from a scope and parameters.
// The request id in the context is deliberately not part of the key.
// Postgres hashes the key with hashtext().
func GenerateLockKey(_ context.Context, scope LockScope, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// scope:key1=value1:key2=value2
	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, params[k]))
	}

	return b.String()
}

// TableName represents a database table name
type TableName string

const (
	TableNameLeases              TableName = "leases"
	TableNameUnits               TableName = "units"
	TableNameRenewalRequests     TableName = "renewal_requests"
	TableNameTenantGroups        TableName = "tenant_groups"
	TableNameTenantGroupMembers  TableName = "tenant_group_members"
	TableNameOffers              TableName = "offers"
	TableNameOrganizations       TableName = "organizations"
	TableNameOrganizationMembers TableName = "organization_members"
	TableNameProperties          TableName = "properties"
)
