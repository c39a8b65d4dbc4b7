package services

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// PaymentService implements payment creation, the employee's weekly list and edits.
type PaymentService struct {
	payments  PaymentStore
	visits    VisitStore
	companies CompanyDirectory
	policy    AccessPolicy
	now       Clock
	logger    *log.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(payments PaymentStore, visits VisitStore, companies CompanyDirectory, now Clock) *PaymentService {
	return &PaymentService{
		payments:  payments,
		visits:    visits,
		companies: companies,
		now:       now,
		logger:    log.New(os.Stdout, "[PAYMENTS] ", log.LstdFlags),
	}
}

// CreatePayment adds the payment of a visit that has none yet. A second payment for
// the same visit is a Conflict.
func (s *PaymentService) CreatePayment(ctx context.Context, actor models.Actor, req models.CreatePaymentRequest) (*models.Payment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	visitID, err := parseID(req.VisitID, "visit id")
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanCreatePayment(actor).Err(); err != nil {
		return nil, err
	}

	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, storeError(err, "Visit not found", "", "Failed to load visit")
	}

	now := s.now()
	payment := models.NewPaymentForVisit(*visit, actor.ID, now)
	payment.FromLocation = utils.SanitizeInput(req.FromLocation)
	payment.Cost = req.Cost

	if err := s.payments.Create(ctx, &payment); err != nil {
		return nil, storeError(err, "Payment not found", "Payment already exists for this visit", "Failed to create payment")
	}

	s.logger.Printf("Payment created - PaymentID: %s, VisitID: %s, By: %s", payment.ID.Hex(), visitID.Hex(), actor.ID.Hex())
	return &payment, nil
}

// GetMyCurrentWeekPayments lists the actor's own payments for the current week.
func (s *PaymentService) GetMyCurrentWeekPayments(ctx context.Context, actor models.Actor) ([]models.PaymentDetail, error) {
	self := actor.ID
	payments, err := s.payments.Find(ctx, models.PaymentFilter{
		WeekStart: utils.WeekOf(s.now()),
		Employee:  &self,
	})
	if err != nil {
		return nil, Internal("Failed to load payments", err)
	}

	details, err := describePayments(ctx, s.companies, s.visits, payments)
	if err != nil {
		return nil, Internal("Failed to load payment details", err)
	}
	return details, nil
}

// UpdatePayment changes fromLocation and/or cost. Every touched field is checked
// against AccessPolicy before anything is written.
func (s *PaymentService) UpdatePayment(ctx context.Context, actor models.Actor, id string, req models.UpdatePaymentRequest) (*models.Payment, error) {
	paymentID, err := parseID(id, "payment id")
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.FromLocation == nil && req.Cost == nil {
		return nil, InvalidInput("At least one field must be provided for update")
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, storeError(err, "Payment not found", "", "Failed to load payment")
	}

	currentWeek := utils.WeekOf(s.now())
	var update models.PaymentUpdate
	if req.FromLocation != nil {
		if err := s.policy.CanMutatePayment(actor, *payment, currentWeek, PaymentFieldFromLocation).Err(); err != nil {
			return nil, err
		}
		from := utils.SanitizeInput(*req.FromLocation)
		update.FromLocation = &from
	}
	if req.Cost != nil {
		if err := s.policy.CanMutatePayment(actor, *payment, currentWeek, PaymentFieldCost).Err(); err != nil {
			return nil, err
		}
		cost := *req.Cost
		update.Cost = &cost
	}

	updated, err := s.payments.Update(ctx, paymentID, update)
	if err != nil {
		return nil, storeError(err, "Payment not found", "", "Failed to update payment")
	}
	return updated, nil
}

// DeletePayment removes a payment. Staff only.
func (s *PaymentService) DeletePayment(ctx context.Context, actor models.Actor, id string) error {
	paymentID, err := parseID(id, "payment id")
	if err != nil {
		return err
	}

	// The delete rule does not depend on the payment itself, so deny before loading it.
	if err := s.policy.CanMutatePayment(actor, models.Payment{}, utils.WeekOf(s.now()), PaymentFieldDelete).Err(); err != nil {
		return err
	}

	if err := s.payments.Delete(ctx, paymentID); err != nil {
		return storeError(err, "Payment not found", "", "Failed to delete payment")
	}

	s.logger.Printf("Payment deleted - PaymentID: %s, By: %s", paymentID.Hex(), actor.ID.Hex())
	return nil
}

// describePayments joins payments with company names and visit arrival times.
func describePayments(ctx context.Context, companies CompanyDirectory, visits VisitStore, payments []models.Payment) ([]models.PaymentDetail, error) {
	companyIDs := make([]primitive.ObjectID, 0, len(payments))
	visitIDs := make([]primitive.ObjectID, 0, len(payments))
	for _, p := range payments {
		companyIDs = append(companyIDs, p.Company)
		visitIDs = append(visitIDs, p.Visit)
	}

	companyMap, err := lookupCompanies(ctx, companies, companyIDs)
	if err != nil {
		return nil, err
	}

	arrivals := make(map[primitive.ObjectID]models.Visit)
	if len(visitIDs) > 0 {
		found, err := visits.FindByIDs(ctx, uniqueIDs(visitIDs))
		if err != nil {
			return nil, err
		}
		for _, v := range found {
			arrivals[v.ID] = v
		}
	}

	details := make([]models.PaymentDetail, 0, len(payments))
	for _, p := range payments {
		detail := models.PaymentDetail{
			Payment: p,
			Company: companySummary(companyMap, p.Company),
		}
		if v, ok := arrivals[p.Visit]; ok {
			arrival := v.ArrivalTime
			detail.ArrivalTime = &arrival
		}
		details = append(details, detail)
	}
	return details, nil
}
