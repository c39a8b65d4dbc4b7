// models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Company struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Address       string              `json:"address" bson:"address"`
	AddressLink   string              `json:"addressLink,omitempty" bson:"addressLink,omitempty"`
	ContactPerson string              `json:"contactPerson" bson:"contactPerson"`
	ContactNumber string              `json:"contactNumber" bson:"contactNumber"`
	AssignedUser  *primitive.ObjectID `json:"assignedUser" bson:"assignedUser"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsAssignedTo reports whether the company's assigned user is userID.
func (c Company) IsAssignedTo(userID primitive.ObjectID) bool {
	return c.AssignedUser != nil && *c.AssignedUser == userID
}

// CompanySummary is the projection embedded into visit and payment views.
type CompanySummary struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Address string             `json:"address,omitempty"`
}

func (c Company) Summary() CompanySummary {
	return CompanySummary{ID: c.ID, Name: c.Name, Address: c.Address}
}

type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Address       string `json:"address" validate:"required,min=5,max=255"`
	AddressLink   string `json:"addressLink" validate:"omitempty,url"`
	ContactPerson string `json:"contactPerson" validate:"required,min=2,max=100"`
	ContactNumber string `json:"contactNumber" validate:"required,contactnumber"`
	AssignedUser  string `json:"assignedUser" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateCompanyRequest is a partial update. An empty assignedUser unassigns the company
// and an empty addressLink clears it.
type UpdateCompanyRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=100"`
	Address       *string `json:"address" validate:"omitempty,min=5,max=255"`
	AddressLink   *string `json:"addressLink" validate:"omitempty,url"`
	ContactPerson *string `json:"contactPerson" validate:"omitempty,min=2,max=100"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,contactnumber"`
	AssignedUser  *string `json:"assignedUser" validate:"omitempty,len=24,hexadecimal"`
}

// CompanyUpdate carries the fields a company store should $set. ClearAssignedUser
// sets assignedUser to null.
type CompanyUpdate struct {
	Name              *string
	Address           *string
	AddressLink       *string
	ContactPerson     *string
	ContactNumber     *string
	AssignedUser      *primitive.ObjectID
	ClearAssignedUser bool
}
