package auth

import (
	"sort"
	"strings"
)

// Permission keys known to the system. The catalog is fixed: role templates
// and per-user grants may only reference keys from this list.
const (
	PermDashboardView   = "dashboard_view"
	PermStudentsList    = "students_list"
	PermStudentsApprove = "students_approve"

	PermCompanyList   = "company_list"
	PermCompanyAdd    = "company_add"
	PermCompanyEdit   = "company_edit"
	PermCompanyDelete = "company_delete"

	PermJobList   = "job_list"
	PermJobAdd    = "job_add"
	PermJobEdit   = "job_edit"
	PermJobDelete = "job_delete"

	PermNoticeList   = "notice_list"
	PermNoticeAdd    = "notice_add"
	PermNoticeDelete = "notice_delete"

	PermTPOList   = "tpo_list"
	PermTPOAdd    = "tpo_add"
	PermTPODelete = "tpo_delete"
)

// DefaultPermissions returns the full permission catalog.
func DefaultPermissions() []string {
	return []string{
		PermDashboardView,
		PermStudentsList, PermStudentsApprove,
		PermCompanyList, PermCompanyAdd, PermCompanyEdit, PermCompanyDelete,
		PermJobList, PermJobAdd, PermJobEdit, PermJobDelete,
		PermNoticeList, PermNoticeAdd, PermNoticeDelete,
		PermTPOList, PermTPOAdd, PermTPODelete,
	}
}

// Normalize canonicalizes a permission string: trim, lowercase, ':' → '_'.
// Idempotent.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), ":", "_")
}

// NormalizeRoleName canonicalizes a role name to lowercase/underscore form.
func NormalizeRoleName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ":", "_")
}

// AllowList is an immutable set of accepted permission strings, built once
// at startup and injected into the components that validate grants.
type AllowList struct {
	set  map[string]struct{}
	keys []string
}

// NewAllowList builds an allow-list from the given keys. Entries are
// normalized and deduplicated.
func NewAllowList(keys ...string) AllowList {
	set := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		k = Normalize(k)
		if k == "" {
			continue
		}
		if _, ok := set[k]; ok {
			continue
		}
		set[k] = struct{}{}
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)
	return AllowList{set: set, keys: ordered}
}

// Contains reports whether the (normalized) permission is in the list.
func (a AllowList) Contains(perm string) bool {
	_, ok := a.set[Normalize(perm)]
	return ok
}

// Keys returns the sorted catalog.
func (a AllowList) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CleanSet normalizes, dedupes and filters the submitted permissions,
// returning the accepted set and any entries outside the allow-list.
func (a AllowList) CleanSet(perms []string) (clean, invalid []string) {
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = Normalize(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		if _, ok := a.set[p]; !ok {
			invalid = append(invalid, p)
			continue
		}
		clean = append(clean, p)
	}
	return clean, invalid
}
