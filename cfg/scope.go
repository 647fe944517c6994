package cfg

import "fmt"

// Scope identifies the control-plane target under which the runner is
// registered: either a single repository or an entire organization.
type Scope struct {
	// Owner and Repo are set for a repository scope
	Owner string
	Repo  string

	// Org is set for an organization scope
	Org string
}

func RepositoryScope(owner, repo string) Scope {
	return Scope{Owner: owner, Repo: repo}
}

func OrganizationScope(org string) Scope {
	return Scope{Org: org}
}

func (s Scope) IsOrganization() bool {
	return s.Org != ""
}

// APIPath is the path prefix for control-plane calls concerning this scope.
func (s Scope) APIPath() string {
	if s.IsOrganization() {
		return fmt.Sprintf("/orgs/%s", s.Org)
	}
	return fmt.Sprintf("/repos/%s/%s", s.Owner, s.Repo)
}

// RegistrationPath is the path appended to the registration base URL when
// handing the target to the local configuration procedure.
func (s Scope) RegistrationPath() string {
	if s.IsOrganization() {
		return "/" + s.Org
	}
	return fmt.Sprintf("/%s/%s", s.Owner, s.Repo)
}

func (s Scope) String() string {
	if s.IsOrganization() {
		return fmt.Sprintf("organization %s", s.Org)
	}
	return fmt.Sprintf("repository %s/%s", s.Owner, s.Repo)
}
