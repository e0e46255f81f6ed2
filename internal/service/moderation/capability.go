package moderation

import (
	"github.com/hfarooqi/tarikh-portal/internal/models"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
)

// Action is a capability-checked workflow operation.
type Action string

// Workflow actions.
const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

// Can evaluates the actor's capability for an action, optionally against the
// targeted item. Every workflow operation runs this exactly once at its
// boundary; a false result must leave no trace.
func Can(actor *models.User, action Action, item *repository.ModerationView) bool {
	switch action {
	case ActionSubmit:
		return true
	case ActionApprove, ActionReject:
		return actor.IsModerator()
	case ActionDelete:
		if actor.IsModerator() {
			return true
		}
		// Self-retraction: a submitter may withdraw their own item while it
		// is still awaiting moderation.
		return item != nil && item.SubmittedBy == actor.ID && item.Status == models.StatusPending
	default:
		return false
	}
}
