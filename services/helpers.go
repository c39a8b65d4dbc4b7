package services

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
)

// parseID converts a hex id coming from a path or body into an ObjectID.
func parseID(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, InvalidInput("Invalid " + field)
	}
	return id, nil
}

// storeError classifies a store failure. notFound is the message used for a missing
// document, conflict the one for a uniqueness violation.
func storeError(err error, notFound, conflict, failure string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return NotFound(notFound)
	case errors.Is(err, models.ErrDuplicate):
		return Conflict(conflict)
	}
	return Internal(failure, err)
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func usersByID(ctx context.Context, users UserDirectory, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	byID := make(map[primitive.ObjectID]models.User)
	if len(ids) == 0 {
		return byID, nil
	}
	found, err := users.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		byID[u.ID] = u
	}
	return byID, nil
}

func companiesByID(companies []models.Company) map[primitive.ObjectID]models.Company {
	byID := make(map[primitive.ObjectID]models.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}
	return byID
}

func lookupCompanies(ctx context.Context, companies CompanyDirectory, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Company, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]models.Company{}, nil
	}
	found, err := companies.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	return companiesByID(found), nil
}

// companySummary falls back to a bare id when the company has since been deleted.
func companySummary(byID map[primitive.ObjectID]models.Company, id primitive.ObjectID) models.CompanySummary {
	if c, ok := byID[id]; ok {
		return c.Summary()
	}
	return models.CompanySummary{ID: id}
}

func userSummary(byID map[primitive.ObjectID]models.User, id primitive.ObjectID) models.UserSummary {
	if u, ok := byID[id]; ok {
		return u.Summary()
	}
	return models.UserSummary{ID: id}
}

// describeVisits joins visits with their company and employee. Order is preserved.
func describeVisits(ctx context.Context, companies CompanyDirectory, users UserDirectory, visits []models.Visit) ([]models.VisitDetail, error) {
	companyIDs := make([]primitive.ObjectID, 0, len(visits))
	employeeIDs := make([]primitive.ObjectID, 0, len(visits))
	for _, v := range visits {
		companyIDs = append(companyIDs, v.Company)
		employeeIDs = append(employeeIDs, v.Employee)
	}

	companyMap, err := lookupCompanies(ctx, companies, companyIDs)
	if err != nil {
		return nil, err
	}
	userMap, err := usersByID(ctx, users, employeeIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.VisitDetail, 0, len(visits))
	for _, v := range visits {
		details = append(details, models.VisitDetail{
			Visit:    v,
			Company:  companySummary(companyMap, v.Company),
			Employee: userSummary(userMap, v.Employee),
		})
	}
	return details, nil
}

func sortByVisitedAtDesc(visits []models.Visit) {
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].VisitedAt.After(visits[j].VisitedAt)
	})
}

func sortByArrivalAsc(visits []models.Visit) {
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].ArrivalTime.Before(visits[j].ArrivalTime)
	})
}
