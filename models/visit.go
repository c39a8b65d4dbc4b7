package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visit is a single client visit logged by an employee. WeekStart is always the
// Monday 00:00 UTC of VisitedAt.
type Visit struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Company      primitive.ObjectID `json:"company" bson:"company"`
	Employee     primitive.ObjectID `json:"employee" bson:"employee"`
	WeekStart    time.Time          `json:"weekStart" bson:"weekStart"`
	VisitedAt    time.Time          `json:"visitedAt" bson:"visitedAt"`
	ArrivalTime  time.Time          `json:"arrivalTime" bson:"arrivalTime"`
	Notes        string             `json:"notes" bson:"notes"`
	SignatureURL string             `json:"signatureUrl" bson:"signatureUrl"`
	CreatedBy    primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateVisitRequest struct {
	CompanyID    string `json:"companyId" validate:"required,len=24,hexadecimal"`
	EmployeeID   string `json:"employeeId" validate:"omitempty,len=24,hexadecimal"`
	VisitedAt    string `json:"visitedAt"`
	ArrivalTime  string `json:"arrivalTime" validate:"required"`
	Notes        string `json:"notes" validate:"max=2000"`
	SignatureURL string `json:"signatureUrl" validate:"required,url"`
}

type UpdateVisitRequest struct {
	ArrivalTime  *string `json:"arrivalTime"`
	VisitedAt    *string `json:"visitedAt"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
	SignatureURL *string `json:"signatureUrl" validate:"omitempty,url"`
}

// VisitUpdate carries the fields a visit store should $set.
type VisitUpdate struct {
	ArrivalTime  *time.Time
	VisitedAt    *time.Time
	WeekStart    *time.Time
	Notes        *string
	SignatureURL *string
}

// VisitFilter selects visits of one week, optionally narrowed to an employee and/or company.
type VisitFilter struct {
	WeekStart time.Time
	Employee  *primitive.ObjectID
	Company   *primitive.ObjectID
}

// VisitQuery is the raw getVisitsByWeek query string.
type VisitQuery struct {
	WeekStart  string `query:"weekStart"`
	EmployeeID string `query:"employeeId" validate:"omitempty,len=24,hexadecimal"`
	CompanyID  string `query:"companyId" validate:"omitempty,len=24,hexadecimal"`
}

// VisitDetail is a visit with its company and employee resolved.
type VisitDetail struct {
	Visit
	Company  CompanySummary `json:"company"`
	Employee UserSummary    `json:"employee"`
}

type VisitList struct {
	WeekStart time.Time     `json:"weekStart"`
	Visits    []VisitDetail `json:"visits"`
}
