package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/orders"
	"github.com/jhoicas/fieldsales-api/internal/application/platform"
	"github.com/jhoicas/fieldsales-api/internal/application/staff"
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	BossAuthUC   *auth.BossAuthUseCase
	StaffUC      *staff.StaffUseCase
	ShopUC       *usecase.ShopUseCase
	AssignmentUC *usecase.AssignmentUseCase
	LeadUC       *usecase.LeadUseCase
	ProductUC    *usecase.ProductUseCase
	OrderUC      *orders.OrderUseCase
	CompanyUC    *platform.CompanyUseCase
	BossUC       *platform.BossUseCase
	Cookies      CookieConfig
	// LoginLimiter nil desactiva el rate limit de los logins.
	LoginLimiter *limiter.Limiter
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	loginGuard := func(c *fiber.Ctx) error { return c.Next() }
	if deps.LoginLimiter != nil {
		loginGuard = RateLimit(deps.LoginLimiter, deps.Log)
	}

	// Auth de tenants (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookies)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup-company", loginGuard, authHandler.SignupCompany)
	authGroup.Post("/login", loginGuard, authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)
	authGroup.Get("/me", SessionMiddleware(deps.AuthUC), authHandler.Me)

	// Panel de la empresa (sesión de tenant + rol por operación)
	manager := api.Group("/manager", SessionMiddleware(deps.AuthUC))
	id := ValidateID("id")

	staffHandler := NewStaffHandler(deps.StaffUC)
	manager.Get("/staff", RequireRole(access.StaffRead), staffHandler.List)
	manager.Post("/staff", RequireRole(access.StaffWrite), staffHandler.Invite)
	manager.Patch("/staff/:id", id, RequireRole(access.StaffWrite), staffHandler.Update)
	manager.Post("/staff/:id/activate", id, RequireRole(access.StaffWrite), staffHandler.Activate)
	manager.Post("/staff/:id/resend-invite", id, RequireRole(access.StaffWrite), staffHandler.ResendInvite)
	manager.Post("/staff/:id/deactivate", id, RequireRole(access.StaffWrite), staffHandler.Deactivate)

	shopHandler := NewShopHandler(deps.ShopUC, deps.AssignmentUC)
	manager.Get("/shops", RequireRole(access.ShopRead), shopHandler.List)
	manager.Post("/shops", RequireRole(access.ShopWrite), shopHandler.Create)
	manager.Get("/shop-assignments", RequireRole(access.AssignmentRead), shopHandler.ListAssignments)
	manager.Post("/shop-assignments", RequireRole(access.AssignmentWrite), shopHandler.Assign)

	leadHandler := NewLeadHandler(deps.LeadUC)
	leads := manager.Group("/leads", RequireRole(access.LeadAccess))
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", id, leadHandler.Get)
	leads.Patch("/:id", id, leadHandler.Update)
	leads.Post("/:id/convert-to-shop", id, leadHandler.Convert)

	productHandler := NewProductHandler(deps.ProductUC)
	manager.Get("/products", RequireRole(access.ProductRead), productHandler.List)
	manager.Post("/products", RequireRole(access.ProductWrite), productHandler.Create)
	manager.Get("/products/:id", id, RequireRole(access.ProductRead), productHandler.Get)
	manager.Patch("/products/:id", id, RequireRole(access.ProductWrite), productHandler.Update)
	manager.Delete("/products/:id", id, RequireRole(access.ProductWrite), productHandler.Delete)

	orderHandler := NewOrderHandler(deps.OrderUC)
	manager.Get("/orders", RequireRole(access.OrderRead), orderHandler.List)
	manager.Post("/orders", RequireRole(access.OrderCreate), orderHandler.Create)
	manager.Get("/orders/counts", RequireRole(access.OrderRead), orderHandler.Counts)
	manager.Get("/orders/:id", id, RequireRole(access.OrderRead), orderHandler.Get)
	manager.Patch("/orders/:id", id, RequireRole(access.OrderTransition), orderHandler.Update)
	manager.Post("/orders/:id/cancel", id, RequireRole(access.OrderTransition), orderHandler.Cancel)
	manager.Get("/orders/:id/pdf", id, RequireRole(access.OrderRead), orderHandler.PDF)

	// Consola de plataforma (sesión de boss)
	bossAuth := NewBossAuthHandler(deps.BossAuthUC, deps.Cookies)
	boss := api.Group("/boss")
	boss.Post("/auth/login", loginGuard, bossAuth.Login)
	boss.Post("/auth/logout", bossAuth.Logout)

	console := boss.Group("/", BossSessionMiddleware(deps.BossAuthUC))
	console.Get("/auth/me", bossAuth.Me)

	bossHandler := NewBossHandler(deps.CompanyUC, deps.BossUC)
	console.Get("/companies", bossHandler.ListCompanies)
	console.Patch("/companies/:id", id, bossHandler.UpdateCompany)
	console.Post("/companies/:id/subscription", id, bossHandler.Subscription)
	console.Get("/companies/:id/payments", id, bossHandler.Payments)
	console.Get("/bosses", bossHandler.ListBosses)
	console.Post("/bosses", bossHandler.CreateBoss)
	console.Patch("/bosses/:id", id, bossHandler.UpdateBoss)
	console.Delete("/bosses/:id", id, bossHandler.DeleteBoss)
}
