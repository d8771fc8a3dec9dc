// Package access is the single authorization decision point for every mutation
// and every owner-scoped read.
package access

import (
	"fmt"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/domain/models"
)

type Action int

const (
	CreateOrganization Action = iota + 1
	MutateOrganization
	CreatePosting
	MutatePosting
	ReplacePosting
	ApplyToPosting
	UpdateApplicationStatus
	ReadOwn
	ReadPublic
)

func (a Action) String() string {
	switch a {
	case CreateOrganization:
		return "create_organization"
	case MutateOrganization:
		return "mutate_organization"
	case CreatePosting:
		return "create_posting"
	case MutatePosting:
		return "mutate_posting"
	case ReplacePosting:
		return "replace_posting"
	case ApplyToPosting:
		return "apply_to_posting"
	case UpdateApplicationStatus:
		return "update_application_status"
	case ReadOwn:
		return "read_own"
	case ReadPublic:
		return "read_public"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Resource describes the target of an action. OwnerID is the account that owns it:
// the organization owner, the posting owner, or the profile itself. Name is used in
// denial messages.
type Resource struct {
	Name    string
	OwnerID string
}

type Outcome int

const (
	Allow Outcome = iota
	Deny
	// Hide denies while reporting the resource as missing, so its existence is not
	// confirmed to someone who may not see it.
	Hide
	NoPrincipal
)

type Decision struct {
	Outcome Outcome
	Reason  string
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

func (d Decision) Err() error {
	switch d.Outcome {
	case Allow:
		return nil
	case Hide:
		return apperr.NotFound(d.Reason)
	case NoPrincipal:
		return apperr.Unauthenticated(d.Reason)
	default:
		return apperr.Forbidden(d.Reason)
	}
}

func allow() Decision {
	return Decision{Outcome: Allow}
}

func deny(reason string) Decision {
	return Decision{Outcome: Deny, Reason: reason}
}

func hide(res Resource) Decision {
	name := res.Name
	if name == "" {
		name = "resource"
	}
	return Decision{Outcome: Hide, Reason: name + " not found"}
}

func owns(principal *models.Account, res Resource) bool {
	return res.OwnerID != "" && principal.ID == res.OwnerID
}

// Authorize evaluates the policy table for one action. principal may be nil for
// anonymous requests.
func Authorize(principal *models.Account, action Action, res Resource) Decision {

	if action == ReadPublic {
		return allow()
	}

	if principal == nil {
		return Decision{Outcome: NoPrincipal, Reason: "authentication required"}
	}

	switch action {
	case CreateOrganization:
		if principal.Role == models.RoleRecruiter {
			return allow()
		}
		return deny("only recruiters can register companies")

	case MutateOrganization:
		if owns(principal, res) {
			return allow()
		}
		return hide(res)

	case CreatePosting:
		if principal.Role == models.RoleAdmin {
			return allow()
		}
		if principal.Role != models.RoleRecruiter {
			return deny("only recruiters can post jobs")
		}
		if owns(principal, res) {
			return allow()
		}
		return hide(res)

	case MutatePosting:
		if principal.Role == models.RoleAdmin {
			return allow()
		}
		if principal.Role != models.RoleRecruiter {
			return deny("not authorized")
		}
		if owns(principal, res) {
			return allow()
		}
		return hide(res)

	case ReplacePosting:
		if principal.Role == models.RoleAdmin {
			return allow()
		}
		return deny("Not authorized")

	case ApplyToPosting:
		if principal.Role == models.RoleSeeker {
			return allow()
		}
		return deny("only job seekers can apply")

	case UpdateApplicationStatus:
		if owns(principal, res) {
			return allow()
		}
		return deny("not authorized to update this application")

	case ReadOwn:
		if owns(principal, res) || principal.Role == models.RoleAdmin {
			return allow()
		}
		return hide(res)
	}

	return deny(fmt.Sprintf("unknown action %v", action))
}
