package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is the travel cost claim attached to exactly one visit.
type Payment struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Employee     primitive.ObjectID `json:"employee" bson:"employee"`
	Company      primitive.ObjectID `json:"company" bson:"company"`
	Visit        primitive.ObjectID `json:"visit" bson:"visit"`
	WeekStart    time.Time          `json:"weekStart" bson:"weekStart"`
	FromLocation string             `json:"fromLocation" bson:"fromLocation"`
	Cost         float64            `json:"cost" bson:"cost"`
	CreatedBy    primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewPaymentForVisit builds the payment row that belongs to v.
func NewPaymentForVisit(v Visit, createdBy primitive.ObjectID, now time.Time) Payment {
	return Payment{
		Employee:  v.Employee,
		Company:   v.Company,
		Visit:     v.ID,
		WeekStart: v.WeekStart,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type CreatePaymentRequest struct {
	VisitID      string  `json:"visitId" validate:"required,len=24,hexadecimal"`
	FromLocation string  `json:"fromLocation" validate:"max=255"`
	Cost         float64 `json:"cost" validate:"min=0"`
}

type UpdatePaymentRequest struct {
	FromLocation *string  `json:"fromLocation" validate:"omitempty,max=255"`
	Cost         *float64 `json:"cost" validate:"omitempty,min=0"`
}

// PaymentUpdate carries the fields a payment store should $set.
type PaymentUpdate struct {
	FromLocation *string
	Cost         *float64
}

// PaymentFilter narrows payment lookups; a zero WeekStart matches every week.
type PaymentFilter struct {
	WeekStart time.Time
	Employee  *primitive.ObjectID
}

// PaymentDetail is a payment with its company name and visit arrival resolved.
type PaymentDetail struct {
	Payment
	Company     CompanySummary `json:"company"`
	ArrivalTime *time.Time     `json:"arrivalTime,omitempty"`
}
