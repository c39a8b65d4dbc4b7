package services

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inetsl/fieldvisit_backend/models"
)

func strPtr(s string) *string { return &s }

var _ = Describe("CompanyService", func() {
	var (
		ctx       context.Context
		companies *memCompanies
		users     *memUsers
		svc       *CompanyService

		manager  models.Actor
		employee models.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		companies = newMemCompanies()
		users = newMemUsers()
		svc = NewCompanyService(companies, users, fixedClock(testNow))

		manager = actorOf(models.RoleManager)
		employee = users.put(models.User{Name: "Rami", Email: "rami@example.com", Role: models.RoleEmployee})
	})

	valid := func() models.CreateCompanyRequest {
		return models.CreateCompanyRequest{
			Name:          " Acme Trading ",
			Address:       "Hamra Street, Beirut",
			AddressLink:   "https://maps.example.com/?q=acme",
			ContactPerson: "Joe",
			ContactNumber: "+961 1 234 567",
		}
	}

	Describe("CreateCompany", func() {
		It("stores a sanitized company", func() {
			req := valid()
			req.AssignedUser = employee.ID.Hex()

			company, err := svc.CreateCompany(ctx, manager, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(company.Name).To(Equal("Acme Trading"))
			Expect(company.IsAssignedTo(employee.ID)).To(BeTrue())
			Expect(company.CreatedAt).To(Equal(testNow))
		})

		It("refuses duplicates", func() {
			_, err := svc.CreateCompany(ctx, manager, valid())
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CreateCompany(ctx, manager, valid())
			Expect(KindOf(err)).To(Equal(KindConflict))
			Expect(MessageOf(err)).To(Equal("Company already exists"))
		})

		It("refuses employees", func() {
			_, err := svc.CreateCompany(ctx, actorOf(models.RoleEmployee), valid())
			Expect(KindOf(err)).To(Equal(KindAccessDenied))
		})

		It("checks the assigned user exists", func() {
			req := valid()
			req.AssignedUser = "665f1c2b8f1b2c3d4e5f6a7b"
			_, err := svc.CreateCompany(ctx, manager, req)
			Expect(MessageOf(err)).To(Equal("Assigned user not found"))
		})

		It("rejects a bad contact number", func() {
			req := valid()
			req.ContactNumber = "call me"
			_, err := svc.CreateCompany(ctx, manager, req)
			Expect(MessageOf(err)).To(Equal("Invalid contact number format"))
		})
	})

	Describe("UpdateCompany", func() {
		var stored models.Company

		BeforeEach(func() {
			stored = companies.put(models.Company{Name: "Acme", AddressLink: "https://maps.example.com", AssignedUser: &employee.ID})
		})

		It("unassigns on an empty assignedUser and clears the link", func() {
			updated, err := svc.UpdateCompany(ctx, manager, stored.ID.Hex(), models.UpdateCompanyRequest{
				AssignedUser: strPtr(""),
				AddressLink:  strPtr(" "),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AssignedUser).To(BeNil())
			Expect(updated.AddressLink).To(BeEmpty())
		})

		It("renames", func() {
			updated, err := svc.UpdateCompany(ctx, manager, stored.ID.Hex(), models.UpdateCompanyRequest{Name: strPtr("Acme Ltd")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Acme Ltd"))
			Expect(updated.IsAssignedTo(employee.ID)).To(BeTrue())
		})

		It("needs at least one field", func() {
			_, err := svc.UpdateCompany(ctx, manager, stored.ID.Hex(), models.UpdateCompanyRequest{})
			Expect(MessageOf(err)).To(Equal("At least one field must be provided for update"))
		})

		It("reports a missing company", func() {
			_, err := svc.UpdateCompany(ctx, manager, "665f1c2b8f1b2c3d4e5f6a7b", models.UpdateCompanyRequest{Name: strPtr("Acme Ltd")})
			Expect(KindOf(err)).To(Equal(KindNotFound))
		})
	})

	Describe("reads", func() {
		It("lists, gets and deletes", func() {
			acme := companies.put(models.Company{Name: "Acme"})
			companies.put(models.Company{Name: "Birch"})

			list, err := svc.ListCompanies(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))

			got, err := svc.GetCompany(ctx, acme.ID.Hex())
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Acme"))

			Expect(svc.DeleteCompany(ctx, manager, acme.ID.Hex())).To(Succeed())
			_, err = svc.GetCompany(ctx, acme.ID.Hex())
			Expect(MessageOf(err)).To(Equal("Company not found"))
		})
	})

	Describe("CompanyQRCode", func() {
		It("renders the map link", func() {
			acme := companies.put(models.Company{Name: "Acme", AddressLink: "https://maps.example.com/?q=acme"})
			png, err := svc.CompanyQRCode(ctx, acme.ID.Hex())
			Expect(err).NotTo(HaveOccurred())
			Expect(png).NotTo(BeEmpty())
		})

		It("needs a map link", func() {
			acme := companies.put(models.Company{Name: "Acme"})
			_, err := svc.CompanyQRCode(ctx, acme.ID.Hex())
			Expect(MessageOf(err)).To(Equal("Company has no address link"))
		})
	})
})
