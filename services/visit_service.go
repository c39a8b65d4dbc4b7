package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// VisitService implements visit creation, listing and staff edits.
type VisitService struct {
	visits    VisitStore
	payments  PaymentStore
	companies CompanyDirectory
	users     UserDirectory
	tx        Transactor
	policy    AccessPolicy
	now       Clock
	logger    *log.Logger
}

// NewVisitService creates a new visit service
func NewVisitService(visits VisitStore, payments PaymentStore, companies CompanyDirectory, users UserDirectory, tx Transactor, now Clock) *VisitService {
	return &VisitService{
		visits:    visits,
		payments:  payments,
		companies: companies,
		users:     users,
		tx:        tx,
		now:       now,
		logger:    log.New(os.Stdout, "[VISITS] ", log.LstdFlags),
	}
}

// CreateVisit records a visit together with its (empty) payment row.
func (s *VisitService) CreateVisit(ctx context.Context, actor models.Actor, req models.CreateVisitRequest) (*models.Visit, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	companyID, err := parseID(req.CompanyID, "company id")
	if err != nil {
		return nil, err
	}

	employeeID := actor.ID
	if req.EmployeeID != "" {
		if employeeID, err = parseID(req.EmployeeID, "employee id"); err != nil {
			return nil, err
		}
	}

	arrival, err := utils.ParseDate(req.ArrivalTime)
	if err != nil {
		return nil, InvalidInput("Invalid arrival time")
	}

	now := s.now()
	visitedAt := now
	if req.VisitedAt != "" {
		if visitedAt, err = utils.ParseDate(req.VisitedAt); err != nil {
			return nil, InvalidInput("Invalid visit date")
		}
	}

	weekStart := utils.WeekOf(visitedAt)
	currentWeek := utils.WeekOf(now)

	if err := s.policy.CanActForEmployee(actor, employeeID).Err(); err != nil {
		return nil, err
	}
	if err := s.policy.CanCreateVisit(actor, weekStart, currentWeek).Err(); err != nil {
		return nil, err
	}

	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, storeError(err, "Company not found", "", "Failed to load company")
	}
	if employeeID != actor.ID {
		if _, err := s.users.FindByID(ctx, employeeID); err != nil {
			return nil, storeError(err, "Employee not found", "", "Failed to load employee")
		}
	}

	visit := &models.Visit{
		Company:      companyID,
		Employee:     employeeID,
		WeekStart:    weekStart,
		VisitedAt:    visitedAt,
		ArrivalTime:  arrival,
		Notes:        utils.SanitizeText(req.Notes),
		SignatureURL: strings.TrimSpace(req.SignatureURL),
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.visits.Create(ctx, visit); err != nil {
			return err
		}
		payment := models.NewPaymentForVisit(*visit, actor.ID, now)
		return s.payments.Create(ctx, &payment)
	})
	if err != nil {
		if !visit.ID.IsZero() {
			// Without a transaction the visit may already be stored.
			if delErr := s.visits.Delete(ctx, visit.ID); delErr != nil && !errors.Is(delErr, models.ErrNotFound) {
				s.logger.Printf("Failed to roll back visit %s: %v", visit.ID.Hex(), delErr)
			}
		}
		return nil, storeError(err, "Visit not found", "Payment already exists for this visit", "Failed to create visit")
	}

	s.logger.Printf("Visit created - VisitID: %s, CompanyID: %s, EmployeeID: %s, Week: %s",
		visit.ID.Hex(), companyID.Hex(), employeeID.Hex(), weekStart.Format("2006-01-02"))
	return visit, nil
}

// GetVisitsByWeek lists the visits of one week. Employees only ever see their own.
func (s *VisitService) GetVisitsByWeek(ctx context.Context, actor models.Actor, query models.VisitQuery) (*models.VisitList, error) {
	if !actor.Role.IsStaff() {
		query.EmployeeID = ""
	}
	if err := validate.Struct(query); err != nil {
		return nil, err
	}

	weekStart, err := utils.ParseWeekSelector(query.WeekStart, s.now())
	if err != nil {
		return nil, InvalidInput("Invalid weekStart date")
	}

	filter := models.VisitFilter{WeekStart: weekStart}
	if actor.Role.IsStaff() {
		if query.EmployeeID != "" {
			employeeID, err := parseID(query.EmployeeID, "employee id")
			if err != nil {
				return nil, err
			}
			filter.Employee = &employeeID
		}
	} else {
		self := actor.ID
		filter.Employee = &self
	}

	if query.CompanyID != "" {
		companyID, err := parseID(query.CompanyID, "company id")
		if err != nil {
			return nil, err
		}
		filter.Company = &companyID
	}

	visits, err := s.visits.Find(ctx, filter)
	if err != nil {
		return nil, Internal("Failed to load visits", err)
	}
	sortByVisitedAtDesc(visits)

	details, err := describeVisits(ctx, s.companies, s.users, visits)
	if err != nil {
		return nil, Internal("Failed to load visit details", err)
	}

	return &models.VisitList{WeekStart: weekStart, Visits: details}, nil
}

// UpdateVisit edits arrival time, visit date, notes or signature. Changing the visit
// date moves the visit to the matching week.
func (s *VisitService) UpdateVisit(ctx context.Context, actor models.Actor, id string, req models.UpdateVisitRequest) (*models.Visit, error) {
	visitID, err := parseID(id, "visit id")
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.ArrivalTime == nil && req.VisitedAt == nil && req.Notes == nil && req.SignatureURL == nil {
		return nil, InvalidInput("At least one field must be provided for update")
	}

	var update models.VisitUpdate
	if req.ArrivalTime != nil {
		arrival, err := utils.ParseDate(*req.ArrivalTime)
		if err != nil {
			return nil, InvalidInput("Invalid arrival time")
		}
		update.ArrivalTime = &arrival
	}
	if req.VisitedAt != nil {
		visitedAt, err := utils.ParseDate(*req.VisitedAt)
		if err != nil {
			return nil, InvalidInput("Invalid visit date")
		}
		weekStart := utils.WeekOf(visitedAt)
		update.VisitedAt = &visitedAt
		update.WeekStart = &weekStart
	}
	if req.Notes != nil {
		notes := utils.SanitizeText(*req.Notes)
		update.Notes = &notes
	}
	if req.SignatureURL != nil {
		url := strings.TrimSpace(*req.SignatureURL)
		update.SignatureURL = &url
	}

	if err := s.policy.CanMutateVisit(actor).Err(); err != nil {
		return nil, err
	}

	visit, err := s.visits.Update(ctx, visitID, update)
	if err != nil {
		return nil, storeError(err, "Visit not found", "", "Failed to update visit")
	}

	s.logger.Printf("Visit updated - VisitID: %s, By: %s", visitID.Hex(), actor.ID.Hex())
	return visit, nil
}

// DeleteVisit removes a visit and the payment that belongs to it.
func (s *VisitService) DeleteVisit(ctx context.Context, actor models.Actor, id string) error {
	visitID, err := parseID(id, "visit id")
	if err != nil {
		return err
	}
	if err := s.policy.CanMutateVisit(actor).Err(); err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// Payment first: without a transaction a failure leaves the visit and its payment in place.
		if err := s.payments.DeleteByVisit(ctx, visitID); err != nil {
			return err
		}
		return s.visits.Delete(ctx, visitID)
	})
	if err != nil {
		return storeError(err, "Visit not found", "", "Failed to delete visit")
	}

	s.logger.Printf("Visit deleted - VisitID: %s, By: %s", visitID.Hex(), actor.ID.Hex())
	return nil
}
