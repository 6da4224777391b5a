package services

import (
	"fmt"

	"manuscript-review-api/models"
)

// Capability is an atomic permission granted to one or more roles.
type Capability string

const (
	CapCreateManuscript   Capability = "CREATE_MANUSCRIPT"
	CapViewOwnSubmissions Capability = "VIEW_OWN_SUBMISSIONS"
	CapViewAllSubmissions Capability = "VIEW_ALL_SUBMISSIONS"
	CapSubmitReview       Capability = "SUBMIT_REVIEW"
	CapAssignReviewers    Capability = "ASSIGN_REVIEWERS"
	CapMakeDecision       Capability = "MAKE_DECISION"
	CapViewAllReviews     Capability = "VIEW_ALL_REVIEWS"
	CapManageUsers        Capability = "MANAGE_USERS"
)

// Identity is the verified, immutable claim set extracted from a bearer
// token: who is calling and which roles they hold.
type Identity struct {
	UserID int
	Email  string
	Roles  []string
}

// roleCapabilities maps each role to its capability set. A user's effective
// capabilities are the union across all held roles; no role extends another.
// MAKE_DECISION is deliberately reserved for CHIEF_EDITOR and ADMIN — plain
// EDITOR may assign reviewers and read everything but cannot decide.
var roleCapabilities = map[string][]Capability{
	models.RoleAuthor: {
		CapCreateManuscript,
		CapViewOwnSubmissions,
	},
	models.RoleReviewer: {
		CapSubmitReview,
		CapViewOwnSubmissions,
	},
	models.RoleEditor: {
		CapViewAllSubmissions,
		CapViewAllReviews,
		CapAssignReviewers,
	},
	models.RoleChiefEditor: {
		CapViewAllSubmissions,
		CapViewAllReviews,
		CapAssignReviewers,
		CapMakeDecision,
		CapManageUsers,
	},
	models.RoleAdmin: {
		CapCreateManuscript,
		CapViewOwnSubmissions,
		CapViewAllSubmissions,
		CapViewAllReviews,
		CapSubmitReview,
		CapAssignReviewers,
		CapMakeDecision,
		CapManageUsers,
	},
}

// HasCapability reports whether any of the identity's roles grants the
// capability.
func HasCapability(identity Identity, capability Capability) bool {
	for _, role := range identity.Roles {
		for _, granted := range roleCapabilities[role] {
			if granted == capability {
				return true
			}
		}
	}
	return false
}

// Authorize checks a capability and returns a typed refusal on denial. It is
// pure: no I/O, deterministic for a given identity and capability.
func Authorize(identity Identity, capability Capability) error {
	if identity.UserID == 0 {
		return unauthorizedError("no authenticated identity")
	}
	if !HasCapability(identity, capability) {
		return forbiddenError(fmt.Sprintf("missing capability %s", capability))
	}
	return nil
}

// AuthorizeOwned checks a capability together with an ownership predicate for
// author-scoped resources: the capability alone is not enough unless the
// identity is among the resource's owners.
func AuthorizeOwned(identity Identity, capability Capability, ownerIDs []int) error {
	if err := Authorize(identity, capability); err != nil {
		return err
	}
	for _, id := range ownerIDs {
		if id == identity.UserID {
			return nil
		}
	}
	return forbiddenError("resource is not owned by the caller")
}

// CanViewManuscript applies the view gate: authors see their own work,
// assigned reviewers see what they review, and holders of
// VIEW_ALL_SUBMISSIONS see everything.
func CanViewManuscript(identity Identity, m *models.Manuscript, assignedReviewer bool) bool {
	if HasCapability(identity, CapViewAllSubmissions) {
		return true
	}
	if assignedReviewer {
		return true
	}
	return m.HasAuthor(identity.UserID)
}
