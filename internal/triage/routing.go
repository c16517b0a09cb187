package triage

import "sort"

// DefaultAuthority receives anything the table does not map.
const DefaultAuthority = "GHMC"

// authorityByIssue is the static routing table from canonical issue type to
// the municipal authority responsible for it. Pure configuration data.
var authorityByIssue = map[string]string{
	"Pothole":      "GHMC",
	"Garbage Dump": "GHMC",
	"Streetlight":  "TSSPDCL",
	"Waterlogging": "HMWSSB",
	"Unsafe Area":  "HYDRA",
}

// issuesByAuthority is the precomputed reverse of the table, built once for
// the list query's authority filter.
var issuesByAuthority = func() map[string][]string {
	rev := make(map[string][]string)
	for issue, authority := range authorityByIssue {
		rev[authority] = append(rev[authority], issue)
	}
	for _, issues := range rev {
		sort.Strings(issues)
	}
	return rev
}()

// AuthorityFor routes a canonical issue type to its authority. Total
// function: unmapped types go to the default authority.
func AuthorityFor(issueType string) string {
	if authority, ok := authorityByIssue[issueType]; ok {
		return authority
	}
	return DefaultAuthority
}

// IssueTypesFor returns the issue types the table maps to an authority.
// For the default authority this does not include unmapped types, which the
// store filter must account for separately.
func IssueTypesFor(authority string) []string {
	return issuesByAuthority[authority]
}

// MappedIssueTypes returns every issue type the table knows, sorted.
func MappedIssueTypes() []string {
	types := make([]string, 0, len(authorityByIssue))
	for issue := range authorityByIssue {
		types = append(types, issue)
	}
	sort.Strings(types)
	return types
}
