package reports

import (
	"participium/internal/auth"
	"participium/internal/domain"
)

var transitions = map[domain.Status][]domain.Status{
	domain.StatusPendingApproval:       {domain.StatusAssigned, domain.StatusRejected},
	domain.StatusAssigned:              {domain.StatusInProgress, domain.StatusSuspended, domain.StatusInExternalMaintenance},
	domain.StatusInProgress:            {domain.StatusResolved, domain.StatusSuspended},
	domain.StatusSuspended:             {domain.StatusInProgress},
	domain.StatusInExternalMaintenance: {domain.StatusResolved},
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
func CanTransition(from, to domain.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func NextStatuses(s domain.Status) []domain.Status {
	next := transitions[s]
	out := make([]domain.Status, len(next))
	copy(out, next)
	return out
}

func mayWork(role auth.Role, from, to domain.Status) bool {
	if from == domain.StatusInExternalMaintenance {
		return auth.Can(role, auth.PermWorkExternalReports)
	}
	if to == domain.StatusInExternalMaintenance {
		return auth.Can(role, auth.PermDelegateExternal)
	}
	return auth.Can(role, auth.PermWorkAssignedReports)
}
