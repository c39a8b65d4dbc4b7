package middleware

import (
	"context"
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

type stubAuthenticator struct {
	actor models.Actor
	err   error
	seen  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (models.Actor, error) {
	s.seen = token
	return s.actor, s.err
}

func decodeResponse(rec *httptest.ResponseRecorder) models.Response {
	var resp models.Response
	Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var _ = Describe("JWTMiddleware", func() {
	var (
		e    *echo.Echo
		auth *stubAuthenticator
	)

	BeforeEach(func() {
		e = echo.New()
		auth = &stubAuthenticator{actor: models.Actor{ID: primitive.NewObjectID(), Role: models.RoleManager}}
		e.GET("/me", func(c echo.Context) error {
			actor, ok := GetActor(c)
			Expect(ok).To(BeTrue())
			return c.String(http.StatusOK, string(actor.Role))
		}, JWTMiddleware(auth))
	})

	It("passes the actor on", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")

		rec := serve(e, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("Manager"))
		Expect(auth.seen).To(Equal("good-token"))
	})

	It("needs a bearer header", func() {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decodeResponse(rec).Message).To(Equal("No token provided"))
	})

	It("relays the authentication failure", func() {
		auth.err = services.Unauthenticated("Token has been invalidated")
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer revoked")

		rec := serve(e, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decodeResponse(rec).Message).To(Equal("Token has been invalidated"))
	})

	It("hides internal failures", func() {
		auth.err = services.Internal("Failed to check token", errors.New("redis down"))
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer any")

		rec := serve(e, req)
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(decodeResponse(rec).Message).To(Equal("Internal server error"))
	})
})

var _ = Describe("RequireRole", func() {
	handle := func(actor *models.Actor) *httptest.ResponseRecorder {
		e := echo.New()
		setActor := func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if actor != nil {
					c.Set(actorKey, *actor)
				}
				return next(c)
			}
		}
		e.GET("/staff", func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, setActor, RequireRole(models.RoleAdmin, models.RoleManager))
		return serve(e, httptest.NewRequest(http.MethodGet, "/staff", nil))
	}

	It("admits listed roles", func() {
		Expect(handle(&models.Actor{Role: models.RoleAdmin}).Code).To(Equal(http.StatusNoContent))
		Expect(handle(&models.Actor{Role: models.RoleManager}).Code).To(Equal(http.StatusNoContent))
	})

	It("forbids other roles", func() {
		rec := handle(&models.Actor{Role: models.RoleEmployee})
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(decodeResponse(rec).Message).To(Equal("Access denied"))
	})

	It("needs an actor", func() {
		Expect(handle(nil).Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("RequireJSON", func() {
	var e *echo.Echo

	BeforeEach(func() {
		e = echo.New()
		ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
		e.POST("/things", ok, RequireJSON())
		e.GET("/things", ok, RequireJSON())
	})

	It("accepts JSON bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"a":1}`))
		req.Header.Set(echo.HeaderContentType, "application/json; charset=utf-8")
		Expect(serve(e, req).Code).To(Equal(http.StatusNoContent))
	})

	It("refuses other bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader("a=1"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := serve(e, req)
		Expect(rec.Code).To(Equal(http.StatusUnsupportedMediaType))
		Expect(decodeResponse(rec).Message).To(Equal("Content-Type must be application/json"))
	})

	It("ignores bodiless requests", func() {
		Expect(serve(e, httptest.NewRequest(http.MethodPost, "/things", nil)).Code).To(Equal(http.StatusNoContent))
		Expect(serve(e, httptest.NewRequest(http.MethodGet, "/things", nil)).Code).To(Equal(http.StatusNoContent))
	})
})

var _ = Describe("RateLimiter", func() {
	var (
		e       *echo.Echo
		limiter *RateLimiter
	)

	BeforeEach(func() {
		e = echo.New()
		limiter = NewRateLimiter()
		e.Use(limiter.RateLimit())
		ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
		e.POST("/api/auth/login", ok)
		e.GET("/api/companies", ok)
		e.GET("/uploads/*", ok)
	})

	fromIP := func(method, path, ip string) *http.Request {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = ip + ":4242"
		return req
	}

	It("blocks an IP that exhausts the login burst", func() {
		for i := 0; i < 5; i++ {
			Expect(serve(e, fromIP(http.MethodPost, "/api/auth/login", "198.51.100.7")).Code).To(Equal(http.StatusNoContent))
		}

		rec := serve(e, fromIP(http.MethodPost, "/api/auth/login", "198.51.100.7"))
		Expect(rec.Code).To(Equal(http.StatusTooManyRequests))
		resp := decodeResponse(rec)
		Expect(resp.Message).To(Equal("Too many requests"))
		Expect(resp.Data).To(HaveKey("retryAfter"))

		blocked := serve(e, fromIP(http.MethodGet, "/api/companies", "198.51.100.7"))
		Expect(blocked.Code).To(Equal(http.StatusTooManyRequests))
		Expect(decodeResponse(blocked).Message).To(Equal("IP address blocked due to too many requests"))

		Expect(serve(e, fromIP(http.MethodGet, "/api/companies", "198.51.100.8")).Code).To(Equal(http.StatusNoContent))
	})

	It("forgets clients that went quiet and lifts expired blocks", func() {
		Expect(serve(e, fromIP(http.MethodGet, "/api/companies", "198.51.100.10")).Code).To(Equal(http.StatusNoContent))
		for i := 0; i < 6; i++ {
			serve(e, fromIP(http.MethodPost, "/api/auth/login", "198.51.100.11"))
		}

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		Expect(limiter.ips).To(HaveKey("198.51.100.10|/api/companies"))
		Expect(limiter.blockedIPs).To(HaveKey("198.51.100.11"))

		limiter.sweepLocked(time.Now().Add(time.Minute))
		Expect(limiter.ips).To(HaveKey("198.51.100.10|/api/companies"))
		Expect(limiter.blockedIPs).To(HaveKey("198.51.100.11"))

		limiter.sweepLocked(time.Now().Add(limiter.idleTimeout + limiter.blockDuration + time.Minute))
		Expect(limiter.ips).To(BeEmpty())
		Expect(limiter.blockedIPs).To(BeEmpty())
	})

	It("never throttles served files", func() {
		for i := 0; i < 50; i++ {
			Expect(serve(e, fromIP(http.MethodGet, "/uploads/signatures/a.png", "198.51.100.9")).Code).To(Equal(http.StatusNoContent))
		}
	})
})

var _ = Describe("SecurityHeadersWithConfig", func() {
	It("sets the hardening headers", func() {
		e := echo.New()
		e.Use(SecurityHeadersWithConfig(SecurityConfig{AllowedDomains: []string{"https://app.example.com"}, HSTS: true}))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get("X-Frame-Options")).To(Equal("DENY"))
		Expect(rec.Header().Get("Strict-Transport-Security")).NotTo(BeEmpty())
		Expect(rec.Header().Get("Content-Security-Policy")).To(ContainSubstring("connect-src 'self' https://app.example.com"))
	})

	It("omits HSTS without TLS", func() {
		e := echo.New()
		e.Use(SecurityHeadersWithConfig(SecurityConfig{}))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get("Strict-Transport-Security")).To(BeEmpty())
	})
})
