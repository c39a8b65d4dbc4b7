package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/services"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func refreshCookieOf(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	return nil
}

var _ = Describe("statusOf", func() {
	DescribeTable("maps error kinds",
		func(kind services.ErrorKind, status int) {
			Expect(statusOf(kind)).To(Equal(status))
		},
		Entry("invalid input", services.KindInvalidInput, http.StatusBadRequest),
		Entry("unauthenticated", services.KindUnauthenticated, http.StatusUnauthorized),
		Entry("access denied", services.KindAccessDenied, http.StatusForbidden),
		Entry("not found", services.KindNotFound, http.StatusNotFound),
		Entry("conflict", services.KindConflict, http.StatusConflict),
		Entry("upstream", services.KindUpstreamFailure, http.StatusBadGateway),
		Entry("internal", services.KindInternal, http.StatusInternalServerError),
	)
})

var _ = Describe("HTTPErrorHandler", func() {
	var e *echo.Echo

	BeforeEach(func() {
		e = echo.New()
		e.HTTPErrorHandler = HTTPErrorHandler
		e.GET("/boom", func(echo.Context) error { return errors.New("db exploded") })
		e.GET("/gone", func(echo.Context) error { return services.NotFound("Visit not found") })
	})

	It("wraps unknown routes in the envelope", func() {
		rec, env := do(e, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Status).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Not Found"))
	})

	It("hides the cause of internal errors", func() {
		rec, env := do(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(env.Message).To(Equal("Internal server error"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("exploded"))
	})

	It("renders service errors that escape a handler", func() {
		rec, env := do(e, httptest.NewRequest(http.MethodGet, "/gone", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Visit not found"))
	})
})

var _ = Describe("AuthController", func() {
	var (
		e     *echo.Echo
		auth  *fakeAuth
		actor models.Actor
	)

	setup := func(secure bool) {
		e = echo.New()
		auth = &fakeAuth{
			result: &models.AuthResult{
				User: models.UserSummary{ID: primitive.NewObjectID(), Name: "Rami", Role: models.RoleEmployee},
				Tokens: models.TokenPair{
					AccessToken:      "access-1",
					RefreshToken:     "refresh-1",
					RefreshExpiresAt: time.Now().Add(time.Hour),
				},
			},
			pair: &models.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2", RefreshExpiresAt: time.Now().Add(time.Hour)},
		}
		actor = models.Actor{ID: primitive.NewObjectID(), Role: models.RoleEmployee}
		ac := NewAuthController(auth, secure)
		e.POST("/api/auth/register", ac.Register)
		e.POST("/api/auth/login", ac.Login)
		e.POST("/api/auth/refresh-token", ac.RefreshToken)
		e.POST("/api/auth/logout", ac.Logout)
		e.GET("/api/auth/me", ac.Me, withActor(actor))
	}

	It("registers with 201 and keeps the refresh token out of the body", func() {
		setup(false)
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Rami","email":"rami@example.com","password":"secret1"}`))
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("User registered successfully"))

		var data map[string]interface{}
		Expect(json.Unmarshal(env.Data, &data)).To(Succeed())
		Expect(data).To(HaveKeyWithValue("accessToken", "access-1"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("refresh-1"))

		cookie := refreshCookieOf(rec)
		Expect(cookie).NotTo(BeNil())
		Expect(cookie.Value).To(Equal("refresh-1"))
		Expect(cookie.HttpOnly).To(BeTrue())
		Expect(cookie.Secure).To(BeFalse())
		Expect(cookie.SameSite).To(Equal(http.SameSiteLaxMode))
	})

	It("marks the cookie secure and cross-site in production", func() {
		setup(true)
		rec, _ := do(e, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"rami@example.com","password":"secret1"}`))
		Expect(rec.Code).To(Equal(http.StatusOK))

		cookie := refreshCookieOf(rec)
		Expect(cookie.Secure).To(BeTrue())
		Expect(cookie.SameSite).To(Equal(http.SameSiteNoneMode))
	})

	It("maps login failures to 401", func() {
		setup(false)
		auth.err = services.Unauthenticated("Invalid email or password")
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"rami@example.com","password":"nope"}`))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Invalid email or password"))
		Expect(refreshCookieOf(rec)).To(BeNil())
	})

	It("rejects malformed bodies", func() {
		setup(false)
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":`))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("Invalid request body"))
	})

	It("rotates the cookie on refresh", func() {
		setup(false)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-1"})

		rec, env := do(e, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(auth.refreshSeen).To(Equal("refresh-1"))
		Expect(string(env.Data)).To(ContainSubstring("access-2"))
		Expect(refreshCookieOf(rec).Value).To(Equal("refresh-2"))
	})

	It("answers 403 for a stale refresh token", func() {
		setup(false)
		auth.err = services.AccessDenied("Refresh token invalid")
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "old"})

		rec, _ := do(e, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("clears the cookie on logout and forwards both tokens", func() {
		setup(false)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-1"})
		req.Header.Set(echo.HeaderAuthorization, "Bearer access-1")

		rec, env := do(e, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Logged out successfully"))
		Expect(auth.logoutTokens).To(Equal([2]string{"refresh-1", "access-1"}))

		cookie := refreshCookieOf(rec)
		Expect(cookie).NotTo(BeNil())
		Expect(cookie.Value).To(BeEmpty())
		Expect(cookie.MaxAge).To(BeNumerically("<", 0))
	})

	It("returns the profile of the actor", func() {
		setup(false)
		rec, env := do(e, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(ContainSubstring(actor.ID.Hex()))
	})
})

var _ = Describe("VisitController", func() {
	var (
		e       *echo.Echo
		visits  *fakeVisits
		rollups *fakeRollups
		actor   models.Actor
	)

	BeforeEach(func() {
		e = echo.New()
		visits = &fakeVisits{visit: &models.Visit{ID: primitive.NewObjectID()}, list: &models.VisitList{}}
		rollups = &fakeRollups{}
		actor = models.Actor{ID: primitive.NewObjectID(), Role: models.RoleManager}

		vc := NewVisitController(visits, rollups)
		g := e.Group("/api/visits", withActor(actor))
		g.POST("", vc.CreateVisit)
		g.GET("", vc.GetVisitsByWeek)
		g.GET("/dashboard", vc.GetPersonalDashboard)
		g.GET("/overview/employee/:employeeId", vc.GetEmployeeWeeklyOverview)
		g.GET("/overview/companies", vc.GetCompanyWeeklyOverview)
		g.PUT("/:id", vc.UpdateVisit)
		g.DELETE("/:id", vc.DeleteVisit)
	})

	It("creates with 201", func() {
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/visits", `{"companyId":"665f1c2b8f1b2c3d4e5f6a7b"}`))
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("Visit added successfully"))
		Expect(visits.lastActor).To(Equal(actor))
	})

	It("maps policy denials to 403", func() {
		visits.err = services.AccessDenied("Employees can only add visits for the current week")
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/visits", `{}`))
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("Employees can only add visits for the current week"))
	})

	It("binds the week query", func() {
		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/api/visits?weekStart=2024-06-03&employeeId=abc", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(visits.lastQuery.WeekStart).To(Equal("2024-06-03"))
		Expect(visits.lastQuery.EmployeeID).To(Equal("abc"))
	})

	It("passes path and query to the employee overview", func() {
		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/api/visits/overview/employee/emp-1?weekStart=2024-05-27", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rollups.employeeID).To(Equal("emp-1"))
		Expect(rollups.week).To(Equal("2024-05-27"))
	})

	It("serves the dashboard and company overview", func() {
		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/api/visits/dashboard", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		rec, _ = do(e, httptest.NewRequest(http.MethodGet, "/api/visits/overview/companies", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("updates and deletes by id", func() {
		rec, _ := do(e, jsonRequest(http.MethodPut, "/api/visits/v-1", `{"notes":"x"}`))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(visits.lastID).To(Equal("v-1"))

		visits.err = services.NotFound("Visit not found")
		rec, _ = do(e, httptest.NewRequest(http.MethodDelete, "/api/visits/v-2", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(visits.lastID).To(Equal("v-2"))
	})
})

var _ = Describe("PaymentController", func() {
	var (
		e        *echo.Echo
		payments *fakePayments
		rollups  *fakeRollups
	)

	BeforeEach(func() {
		e = echo.New()
		payments = &fakePayments{}
		rollups = &fakeRollups{}
		pc := NewPaymentController(payments, rollups)
		g := e.Group("/api/payments", withActor(models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}))
		g.POST("", pc.CreatePayment)
		g.GET("/my-current-week", pc.GetMyCurrentWeekPayments)
		g.GET("/admin", pc.GetWeeklyPaymentLedger)
		g.PUT("/:id", pc.UpdatePayment)
		g.DELETE("/:id", pc.DeletePayment)
	})

	It("creates with 201 and reports duplicates as 409", func() {
		rec, _ := do(e, jsonRequest(http.MethodPost, "/api/payments", `{"visitId":"665f1c2b8f1b2c3d4e5f6a7b"}`))
		Expect(rec.Code).To(Equal(http.StatusCreated))

		payments.err = services.Conflict("Payment already exists for this visit")
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/payments", `{"visitId":"665f1c2b8f1b2c3d4e5f6a7b"}`))
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(env.Message).To(Equal("Payment already exists for this visit"))
	})

	It("decodes partial updates", func() {
		rec, _ := do(e, jsonRequest(http.MethodPut, "/api/payments/p-1", `{"cost":7.5}`))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(payments.lastReq.FromLocation).To(BeNil())
		Expect(*payments.lastReq.Cost).To(Equal(7.5))
	})

	It("passes ledger filters through", func() {
		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/api/payments/admin?weekStart=2024-06-03&employeeId=emp-1", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rollups.week).To(Equal("2024-06-03"))
		Expect(rollups.employeeID).To(Equal("emp-1"))
	})

	It("lists and deletes", func() {
		rec, env := do(e, httptest.NewRequest(http.MethodGet, "/api/payments/my-current-week", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(Equal("[]"))

		rec, _ = do(e, httptest.NewRequest(http.MethodDelete, "/api/payments/p-1", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("CompanyController", func() {
	var (
		e         *echo.Echo
		companies *fakeCompanies
	)

	BeforeEach(func() {
		e = echo.New()
		companies = &fakeCompanies{png: []byte("\x89PNG")}
		cc := NewCompanyController(companies)
		g := e.Group("/api/companies", withActor(models.Actor{ID: primitive.NewObjectID(), Role: models.RoleManager}))
		g.GET("", cc.ListCompanies)
		g.POST("", cc.CreateCompany)
		g.GET("/:id", cc.GetCompany)
		g.GET("/:id/qrcode", cc.GetCompanyQRCode)
		g.PUT("/:id", cc.UpdateCompany)
		g.DELETE("/:id", cc.DeleteCompany)
	})

	It("creates with 201", func() {
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/companies", `{"name":"Acme"}`))
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("Company created successfully"))
	})

	It("serves the QR code as PNG", func() {
		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/api/companies/c-1/qrcode", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get(echo.HeaderContentType)).To(Equal("image/png"))
		Expect(rec.Body.Bytes()).To(Equal([]byte("\x89PNG")))
	})

	It("renders QR failures in the envelope", func() {
		companies.err = services.NotFound("Company has no address link")
		rec, env := do(e, httptest.NewRequest(http.MethodGet, "/api/companies/c-1/qrcode", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Company has no address link"))
	})

	It("lists, reads, updates and deletes", func() {
		for _, req := range []*http.Request{
			httptest.NewRequest(http.MethodGet, "/api/companies", nil),
			httptest.NewRequest(http.MethodGet, "/api/companies/c-1", nil),
			jsonRequest(http.MethodPut, "/api/companies/c-1", `{"assignedUser":""}`),
			httptest.NewRequest(http.MethodDelete, "/api/companies/c-1", nil),
		} {
			rec, _ := do(e, req)
			Expect(rec.Code).To(Equal(http.StatusOK), req.Method+" "+req.URL.Path)
		}
	})
})

var _ = Describe("UserController", func() {
	It("maps the admin surface", func() {
		e := echo.New()
		users := &fakeUsers{}
		uc := NewUserController(users)
		g := e.Group("/api/users", withActor(models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}))
		g.GET("", uc.GetAllUsers)
		g.PATCH("/:id", uc.UpdateUser)
		g.DELETE("/:id", uc.DeleteUser)

		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec, _ = do(e, jsonRequest(http.MethodPatch, "/api/users/u-1", `{"role":"Manager"}`))
		Expect(rec.Code).To(Equal(http.StatusOK))

		users.err = services.NotFound("User not found")
		rec, env := do(e, httptest.NewRequest(http.MethodDelete, "/api/users/u-1", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("User not found"))
	})
})

var _ = Describe("UploadController", func() {
	var (
		e          *echo.Echo
		signatures *fakeSignatures
	)

	BeforeEach(func() {
		e = echo.New()
		signatures = &fakeSignatures{}
		e.POST("/api/uploads/signature", NewUploadController(signatures).UploadSignature)
	})

	It("returns the stored URL", func() {
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/uploads/signature", `{"image":"data:image/png;base64,AAAA"}`))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(ContainSubstring("signatures/a.png"))
	})

	It("maps storage failures to 502", func() {
		signatures.err = services.UpstreamFailure("Upload failed", errors.New("bucket down"))
		rec, env := do(e, jsonRequest(http.MethodPost, "/api/uploads/signature", `{"image":"x"}`))
		Expect(rec.Code).To(Equal(http.StatusBadGateway))
		Expect(env.Message).To(Equal("Upload failed"))
	})
})
