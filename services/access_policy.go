package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// DenialReason says why AccessPolicy refused an action.
type DenialReason int

const (
	DenyNone DenialReason = iota
	DenyRole
	DenyWeekClosed
	DenyNotOwner
	DenyFieldNotEditable
	DenyImpersonation
)

// Decision is the outcome of a policy check. Denials always carry a reason.
type Decision struct {
	Allowed bool
	Reason  DenialReason
	Message string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason DenialReason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Err turns a denial into an AccessDenied error; allowed decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return AccessDenied(d.Message)
}

// PaymentField names what an actor wants to change on a payment.
type PaymentField string

const (
	PaymentFieldFromLocation PaymentField = "fromLocation"
	PaymentFieldCost         PaymentField = "cost"
	PaymentFieldDelete       PaymentField = "delete"
)

// AccessPolicy holds the role, ownership and week-window rules for visits and payments.
// It is stateless; callers pass the current week in.
type AccessPolicy struct{}

// CanCreateVisit lets staff log visits for any week and employees for the current week only.
func (AccessPolicy) CanCreateVisit(actor models.Actor, targetWeek, currentWeek time.Time) Decision {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return allow()
	case models.RoleEmployee:
		if utils.SameWeek(targetWeek, currentWeek) {
			return allow()
		}
		return deny(DenyWeekClosed, "Employees can only add visits for the current week")
	}
	return deny(DenyRole, "Access denied")
}

// CanActForEmployee decides whether actor may record a visit on behalf of employeeID.
func (AccessPolicy) CanActForEmployee(actor models.Actor, employeeID primitive.ObjectID) Decision {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return allow()
	case models.RoleEmployee:
		if employeeID == actor.ID {
			return allow()
		}
		return deny(DenyImpersonation, "Employees can only add their own visits")
	}
	return deny(DenyRole, "Access denied")
}

// CanMutateVisit covers both update and delete of an existing visit.
func (AccessPolicy) CanMutateVisit(actor models.Actor) Decision {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return allow()
	case models.RoleEmployee:
		return deny(DenyRole, "Only Admin or Manager can modify visits")
	}
	return deny(DenyRole, "Access denied")
}

// CanMutatePayment lets staff do anything and the owning employee edit fromLocation
// and cost while the payment's week is still the current one.
func (AccessPolicy) CanMutatePayment(actor models.Actor, payment models.Payment, currentWeek time.Time, field PaymentField) Decision {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return allow()
	case models.RoleEmployee:
		switch field {
		case PaymentFieldFromLocation, PaymentFieldCost:
		case PaymentFieldDelete:
			return deny(DenyRole, "Only Admin or Manager can delete payments")
		default:
			return deny(DenyFieldNotEditable, "Field cannot be edited")
		}
		if payment.Employee != actor.ID {
			return deny(DenyNotOwner, "Access denied")
		}
		if !utils.SameWeek(payment.WeekStart, currentWeek) {
			return deny(DenyWeekClosed, "Cannot edit past week payments")
		}
		return allow()
	}
	return deny(DenyRole, "Access denied")
}

// CanCreatePayment guards the explicit payment creation path.
func (AccessPolicy) CanCreatePayment(actor models.Actor) Decision {
	return staffOnly(actor, "Only Admin or Manager can create payments")
}

func (AccessPolicy) CanViewEmployeeOverview(actor models.Actor) Decision {
	return staffOnly(actor, "Only Admin or Manager can view employee overviews")
}

func (AccessPolicy) CanManageCompanies(actor models.Actor) Decision {
	return staffOnly(actor, "Only Admin or Manager can manage companies")
}

// CanViewPaymentLedger is Admin only.
func (AccessPolicy) CanViewPaymentLedger(actor models.Actor) Decision {
	return adminOnly(actor, "Only Admin can view the payment ledger")
}

func (AccessPolicy) CanManageUsers(actor models.Actor) Decision {
	return adminOnly(actor, "Only Admin can manage users")
}

func staffOnly(actor models.Actor, message string) Decision {
	switch actor.Role {
	case models.RoleAdmin, models.RoleManager:
		return allow()
	case models.RoleEmployee:
		return deny(DenyRole, message)
	}
	return deny(DenyRole, "Access denied")
}

func adminOnly(actor models.Actor, message string) Decision {
	switch actor.Role {
	case models.RoleAdmin:
		return allow()
	case models.RoleManager, models.RoleEmployee:
		return deny(DenyRole, message)
	}
	return deny(DenyRole, "Access denied")
}
