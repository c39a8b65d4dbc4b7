package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DashboardStats struct {
	TotalAssignedCompanies     int `json:"totalAssignedCompanies"`
	VisitedAssignedCompanies   int `json:"visitedAssignedCompanies"`
	RemainingAssignedCompanies int `json:"remainingAssignedCompanies"`
}

// PersonalDashboard is the current-week view of one actor's own visits.
type PersonalDashboard struct {
	WeekStart          time.Time        `json:"weekStart"`
	Visits             []VisitDetail    `json:"visits"`
	Stats              DashboardStats   `json:"stats"`
	RemainingCompanies []CompanySummary `json:"remainingCompanies"`
}

type EmployeeOverviewStats struct {
	TotalCompanies     int `json:"totalCompanies"`
	VisitedCompanies   int `json:"visitedCompanies"`
	RemainingCompanies int `json:"remainingCompanies"`
}

// EmployeeOverview measures one employee's week against every company.
type EmployeeOverview struct {
	WeekStart          time.Time             `json:"weekStart"`
	Employee           UserSummary           `json:"employee"`
	Stats              EmployeeOverviewStats `json:"stats"`
	Visited            []VisitDetail         `json:"visited"`
	RemainingCompanies []Company             `json:"remainingCompanies"`
}

type CompanyOverviewStats struct {
	TotalCompanies      int `json:"totalCompanies"`
	VisitedCompanies    int `json:"visitedCompanies"`
	NotVisitedCompanies int `json:"notVisitedCompanies"`
}

// CompanyVisit is one visit as embedded in the company-wise overview.
type CompanyVisit struct {
	VisitID     primitive.ObjectID `json:"visitId"`
	Employee    UserSummary        `json:"employee"`
	ArrivalTime time.Time          `json:"arrivalTime"`
	VisitedAt   time.Time          `json:"visitedAt"`
	Notes       string             `json:"notes"`
}

type VisitedCompany struct {
	Company CompanySummary `json:"company"`
	Visits  []CompanyVisit `json:"visits"`
}

// CompanyOverview partitions every company into visited and not visited for a week.
type CompanyOverview struct {
	WeekStart           time.Time            `json:"weekStart"`
	Stats               CompanyOverviewStats `json:"stats"`
	VisitedCompanies    []VisitedCompany     `json:"visitedCompanies"`
	NotVisitedCompanies []CompanySummary     `json:"notVisitedCompanies"`
}

type EmployeePaymentTotal struct {
	Employee  UserSummary `json:"employee"`
	Count     int         `json:"count"`
	TotalCost float64     `json:"totalCost"`
}

type PaymentLedgerTotals struct {
	Count     int     `json:"count"`
	TotalCost float64 `json:"totalCost"`
}

// PaymentLedger is the admin weekly payment report.
type PaymentLedger struct {
	WeekStart  time.Time              `json:"weekStart"`
	Totals     PaymentLedgerTotals    `json:"totals"`
	ByEmployee []EmployeePaymentTotal `json:"byEmployee"`
	Payments   []PaymentDetail        `json:"payments"`
}
