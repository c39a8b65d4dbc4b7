package services

import (
	"context"
	"log"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

const companyQRCodeSize = 256

// CompanyService manages the company directory. Reads are open to every role.
type CompanyService struct {
	companies CompanyDirectory
	users     UserDirectory
	policy    AccessPolicy
	now       Clock
	logger    *log.Logger
}

func NewCompanyService(companies CompanyDirectory, users UserDirectory, now Clock) *CompanyService {
	return &CompanyService{
		companies: companies,
		users:     users,
		now:       now,
		logger:    log.New(os.Stdout, "[COMPANIES] ", log.LstdFlags),
	}
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.companies.FindAll(ctx)
	if err != nil {
		return nil, Internal("Failed to load companies", err)
	}
	return companies, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	companyID, err := parseID(id, "company id")
	if err != nil {
		return nil, err
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, storeError(err, "Company not found", "", "Failed to load company")
	}
	return company, nil
}

func (s *CompanyService) CreateCompany(ctx context.Context, actor models.Actor, req models.CreateCompanyRequest) (*models.Company, error) {
	if err := s.policy.CanManageCompanies(actor).Err(); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	now := s.now()
	company := &models.Company{
		Name:          utils.SanitizeInput(req.Name),
		Address:       utils.SanitizeInput(req.Address),
		AddressLink:   strings.TrimSpace(req.AddressLink),
		ContactPerson: utils.SanitizeInput(req.ContactPerson),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.AssignedUser != "" {
		assigned, err := s.assignableUser(ctx, req.AssignedUser)
		if err != nil {
			return nil, err
		}
		company.AssignedUser = &assigned
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, storeError(err, "Company not found", "Company already exists", "Failed to create company")
	}

	s.logger.Printf("Company created - CompanyID: %s, Name: %s, By: %s", company.ID.Hex(), company.Name, actor.ID.Hex())
	return company, nil
}

// UpdateCompany applies a partial update. Sending an empty assignedUser unassigns the
// company; an empty addressLink removes the map link.
func (s *CompanyService) UpdateCompany(ctx context.Context, actor models.Actor, id string, req models.UpdateCompanyRequest) (*models.Company, error) {
	if err := s.policy.CanManageCompanies(actor).Err(); err != nil {
		return nil, err
	}
	companyID, err := parseID(id, "company id")
	if err != nil {
		return nil, err
	}

	var update models.CompanyUpdate
	if req.AssignedUser != nil && strings.TrimSpace(*req.AssignedUser) == "" {
		update.ClearAssignedUser = true
		req.AssignedUser = nil
	}
	if req.AddressLink != nil && strings.TrimSpace(*req.AddressLink) == "" {
		empty := ""
		update.AddressLink = &empty
		req.AddressLink = nil
	}

	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Address == nil && req.AddressLink == nil && req.ContactPerson == nil &&
		req.ContactNumber == nil && req.AssignedUser == nil && !update.ClearAssignedUser && update.AddressLink == nil {
		return nil, InvalidInput("At least one field must be provided for update")
	}

	if req.Name != nil {
		name := utils.SanitizeInput(*req.Name)
		update.Name = &name
	}
	if req.Address != nil {
		address := utils.SanitizeInput(*req.Address)
		update.Address = &address
	}
	if req.AddressLink != nil {
		link := strings.TrimSpace(*req.AddressLink)
		update.AddressLink = &link
	}
	if req.ContactPerson != nil {
		person := utils.SanitizeInput(*req.ContactPerson)
		update.ContactPerson = &person
	}
	if req.ContactNumber != nil {
		number := strings.TrimSpace(*req.ContactNumber)
		update.ContactNumber = &number
	}
	if req.AssignedUser != nil {
		assigned, err := s.assignableUser(ctx, *req.AssignedUser)
		if err != nil {
			return nil, err
		}
		update.AssignedUser = &assigned
	}

	company, err := s.companies.Update(ctx, companyID, update)
	if err != nil {
		return nil, storeError(err, "Company not found", "Company already exists", "Failed to update company")
	}
	return company, nil
}

func (s *CompanyService) DeleteCompany(ctx context.Context, actor models.Actor, id string) error {
	if err := s.policy.CanManageCompanies(actor).Err(); err != nil {
		return err
	}
	companyID, err := parseID(id, "company id")
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return storeError(err, "Company not found", "", "Failed to delete company")
	}

	s.logger.Printf("Company deleted - CompanyID: %s, By: %s", companyID.Hex(), actor.ID.Hex())
	return nil
}

// CompanyQRCode renders the company's map link as a PNG QR code.
func (s *CompanyService) CompanyQRCode(ctx context.Context, id string) ([]byte, error) {
	company, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.AddressLink == "" {
		return nil, NotFound("Company has no address link")
	}

	png, err := utils.QRCodePNG(company.AddressLink, companyQRCodeSize)
	if err != nil {
		return nil, Internal("Failed to generate QR code", err)
	}
	return png, nil
}

func (s *CompanyService) assignableUser(ctx context.Context, hex string) (primitive.ObjectID, error) {
	userID, err := parseID(hex, "assigned user")
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return primitive.NilObjectID, storeError(err, "Assigned user not found", "", "Failed to load assigned user")
	}
	return userID, nil
}
