package auth

import (
	"slices"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	cases := map[string]string{
		"  Job:Edit ":   "job_edit",
		"JOB_EDIT":      "job_edit",
		"notice:list":   "notice_list",
		"company_add":   "company_add",
		" Dash:View  ":  "dash_view",
		"students:list": "students_list",
	}
	for in, want := range cases {
		once := Normalize(in)
		if once != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, once, want)
		}
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeRoleName(t *testing.T) {
	if got := NormalizeRoleName("  TPO Admin "); got != "tpo_admin" {
		t.Fatalf("got %q", got)
	}
}

func TestAllowListCleanSet(t *testing.T) {
	allow := NewAllowList(DefaultPermissions()...)

	clean, invalid := allow.CleanSet([]string{" Job:Edit ", "job_edit", "company_add", "bogus_perm"})
	if len(invalid) != 1 || invalid[0] != "bogus_perm" {
		t.Fatalf("expected exactly [bogus_perm] invalid, got %v", invalid)
	}
	want := []string{"company_add", "job_edit"}
	slices.Sort(clean)
	if !slices.Equal(clean, want) {
		t.Fatalf("clean = %v, want %v", clean, want)
	}
}

func TestAllowListContainsAfterNormalize(t *testing.T) {
	allow := NewAllowList(DefaultPermissions()...)
	if !allow.Contains(Normalize(" Job:Edit ")) {
		t.Fatal("normalized permission should be in allow-list")
	}
	if allow.Contains("nonexistent") {
		t.Fatal("unknown permission must not be allowed")
	}
}
