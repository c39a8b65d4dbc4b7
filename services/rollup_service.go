package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// RollupService builds the weekly dashboards: what was visited, what is left, and
// what was spent.
type RollupService struct {
	visits    VisitStore
	payments  PaymentStore
	companies CompanyDirectory
	users     UserDirectory
	policy    AccessPolicy
	now       Clock
}

func NewRollupService(visits VisitStore, payments PaymentStore, companies CompanyDirectory, users UserDirectory, now Clock) *RollupService {
	return &RollupService{
		visits:    visits,
		payments:  payments,
		companies: companies,
		users:     users,
		now:       now,
	}
}

// PersonalDashboard shows the actor's own visits this week against the companies
// assigned to them.
func (s *RollupService) PersonalDashboard(ctx context.Context, actor models.Actor) (*models.PersonalDashboard, error) {
	weekStart := utils.WeekOf(s.now())
	self := actor.ID

	visits, err := s.visits.Find(ctx, models.VisitFilter{WeekStart: weekStart, Employee: &self})
	if err != nil {
		return nil, Internal("Failed to load visits", err)
	}
	sortByVisitedAtDesc(visits)

	assigned, err := s.companies.FindAssignedTo(ctx, actor.ID)
	if err != nil {
		return nil, Internal("Failed to load assigned companies", err)
	}

	visited, remaining := partitionCompanies(assigned, visitedCompanyIDs(visits))

	details, err := describeVisits(ctx, s.companies, s.users, visits)
	if err != nil {
		return nil, Internal("Failed to load visit details", err)
	}

	remainingSummaries := make([]models.CompanySummary, 0, len(remaining))
	for _, c := range remaining {
		remainingSummaries = append(remainingSummaries, c.Summary())
	}

	return &models.PersonalDashboard{
		WeekStart: weekStart,
		Visits:    details,
		Stats: models.DashboardStats{
			TotalAssignedCompanies:     len(assigned),
			VisitedAssignedCompanies:   len(visited),
			RemainingAssignedCompanies: len(remaining),
		},
		RemainingCompanies: remainingSummaries,
	}, nil
}

// EmployeeOverview measures one employee's week against every company.
func (s *RollupService) EmployeeOverview(ctx context.Context, actor models.Actor, employeeID, weekSelector string) (*models.EmployeeOverview, error) {
	if err := s.policy.CanViewEmployeeOverview(actor).Err(); err != nil {
		return nil, err
	}
	id, err := parseID(employeeID, "employee id")
	if err != nil {
		return nil, err
	}
	weekStart, err := utils.ParseWeekSelector(weekSelector, s.now())
	if err != nil {
		return nil, InvalidInput("Invalid weekStart date")
	}

	employee, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Employee not found", "", "Failed to load employee")
	}

	visits, err := s.visits.Find(ctx, models.VisitFilter{WeekStart: weekStart, Employee: &id})
	if err != nil {
		return nil, Internal("Failed to load visits", err)
	}
	sortByArrivalAsc(visits)

	companies, err := s.companies.FindAll(ctx)
	if err != nil {
		return nil, Internal("Failed to load companies", err)
	}

	_, remaining := partitionCompanies(companies, visitedCompanyIDs(visits))

	details, err := describeVisits(ctx, s.companies, s.users, visits)
	if err != nil {
		return nil, Internal("Failed to load visit details", err)
	}

	return &models.EmployeeOverview{
		WeekStart: weekStart,
		Employee:  employee.Summary(),
		Stats: models.EmployeeOverviewStats{
			TotalCompanies:     len(companies),
			VisitedCompanies:   len(companies) - len(remaining),
			RemainingCompanies: len(remaining),
		},
		Visited:            details,
		RemainingCompanies: remaining,
	}, nil
}

// CompanyOverview splits every company into visited and not visited for the selected
// week, defaulting to the current one.
func (s *RollupService) CompanyOverview(ctx context.Context, actor models.Actor, weekSelector string) (*models.CompanyOverview, error) {
	weekStart, err := utils.ParseWeekSelector(weekSelector, s.now())
	if err != nil {
		return nil, InvalidInput("Invalid weekStart date")
	}

	visits, err := s.visits.Find(ctx, models.VisitFilter{WeekStart: weekStart})
	if err != nil {
		return nil, Internal("Failed to load visits", err)
	}
	sortByArrivalAsc(visits)

	companies, err := s.companies.FindAll(ctx)
	if err != nil {
		return nil, Internal("Failed to load companies", err)
	}

	employeeIDs := make([]primitive.ObjectID, 0, len(visits))
	for _, v := range visits {
		employeeIDs = append(employeeIDs, v.Employee)
	}
	employees, err := usersByID(ctx, s.users, employeeIDs)
	if err != nil {
		return nil, Internal("Failed to load employees", err)
	}

	byCompany := groupVisitsByCompany(visits)
	overview := &models.CompanyOverview{
		WeekStart:           weekStart,
		VisitedCompanies:    []models.VisitedCompany{},
		NotVisitedCompanies: []models.CompanySummary{},
	}
	for _, c := range companies {
		group, ok := byCompany[c.ID]
		if !ok {
			overview.NotVisitedCompanies = append(overview.NotVisitedCompanies, c.Summary())
			continue
		}
		entry := models.VisitedCompany{Company: c.Summary(), Visits: make([]models.CompanyVisit, 0, len(group))}
		for _, v := range group {
			entry.Visits = append(entry.Visits, models.CompanyVisit{
				VisitID:     v.ID,
				Employee:    userSummary(employees, v.Employee),
				ArrivalTime: v.ArrivalTime,
				VisitedAt:   v.VisitedAt,
				Notes:       v.Notes,
			})
		}
		overview.VisitedCompanies = append(overview.VisitedCompanies, entry)
	}

	overview.Stats = models.CompanyOverviewStats{
		TotalCompanies:      len(companies),
		VisitedCompanies:    len(overview.VisitedCompanies),
		NotVisitedCompanies: len(overview.NotVisitedCompanies),
	}
	return overview, nil
}

// WeeklyPaymentLedger lists the payments of a week with totals per employee.
func (s *RollupService) WeeklyPaymentLedger(ctx context.Context, actor models.Actor, weekSelector, employeeID string) (*models.PaymentLedger, error) {
	if err := s.policy.CanViewPaymentLedger(actor).Err(); err != nil {
		return nil, err
	}
	weekStart, err := utils.ParseWeekSelector(weekSelector, s.now())
	if err != nil {
		return nil, InvalidInput("Invalid weekStart date")
	}

	filter := models.PaymentFilter{WeekStart: weekStart}
	if employeeID != "" {
		id, err := parseID(employeeID, "employee id")
		if err != nil {
			return nil, err
		}
		filter.Employee = &id
	}

	payments, err := s.payments.Find(ctx, filter)
	if err != nil {
		return nil, Internal("Failed to load payments", err)
	}

	details, err := describePayments(ctx, s.companies, s.visits, payments)
	if err != nil {
		return nil, Internal("Failed to load payment details", err)
	}
	sort.SliceStable(details, func(i, j int) bool {
		return arrivalOf(details[i]).Before(arrivalOf(details[j]))
	})

	employeeIDs := make([]primitive.ObjectID, 0, len(payments))
	for _, p := range payments {
		employeeIDs = append(employeeIDs, p.Employee)
	}
	employees, err := usersByID(ctx, s.users, employeeIDs)
	if err != nil {
		return nil, Internal("Failed to load employees", err)
	}

	totals, byEmployee := summarizePayments(payments, employees)
	return &models.PaymentLedger{
		WeekStart:  weekStart,
		Totals:     totals,
		ByEmployee: byEmployee,
		Payments:   details,
	}, nil
}

func visitedCompanyIDs(visits []models.Visit) map[primitive.ObjectID]struct{} {
	ids := make(map[primitive.ObjectID]struct{}, len(visits))
	for _, v := range visits {
		ids[v.Company] = struct{}{}
	}
	return ids
}

// partitionCompanies splits companies by whether their id is in visited. Input order
// is kept on both sides.
func partitionCompanies(companies []models.Company, visited map[primitive.ObjectID]struct{}) (hit, rest []models.Company) {
	hit = []models.Company{}
	rest = []models.Company{}
	for _, c := range companies {
		if _, ok := visited[c.ID]; ok {
			hit = append(hit, c)
		} else {
			rest = append(rest, c)
		}
	}
	return hit, rest
}

// groupVisitsByCompany keeps the order of visits inside each group.
func groupVisitsByCompany(visits []models.Visit) map[primitive.ObjectID][]models.Visit {
	groups := make(map[primitive.ObjectID][]models.Visit)
	for _, v := range visits {
		groups[v.Company] = append(groups[v.Company], v)
	}
	return groups
}

func summarizePayments(payments []models.Payment, employees map[primitive.ObjectID]models.User) (models.PaymentLedgerTotals, []models.EmployeePaymentTotal) {
	var totals models.PaymentLedgerTotals
	perEmployee := make(map[primitive.ObjectID]*models.EmployeePaymentTotal)
	order := make([]primitive.ObjectID, 0)

	for _, p := range payments {
		totals.Count++
		totals.TotalCost += p.Cost

		sub, ok := perEmployee[p.Employee]
		if !ok {
			sub = &models.EmployeePaymentTotal{Employee: userSummary(employees, p.Employee)}
			perEmployee[p.Employee] = sub
			order = append(order, p.Employee)
		}
		sub.Count++
		sub.TotalCost += p.Cost
	}

	byEmployee := make([]models.EmployeePaymentTotal, 0, len(order))
	for _, id := range order {
		byEmployee = append(byEmployee, *perEmployee[id])
	}
	sort.SliceStable(byEmployee, func(i, j int) bool {
		return strings.ToLower(byEmployee[i].Employee.Name) < strings.ToLower(byEmployee[j].Employee.Name)
	})
	return totals, byEmployee
}

func arrivalOf(d models.PaymentDetail) time.Time {
	if d.ArrivalTime == nil {
		return time.Time{}
	}
	return *d.ArrivalTime
}
