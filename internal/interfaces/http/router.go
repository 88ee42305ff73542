package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/auth"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/caja"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/tramites"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/usecase"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/pdf"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	TaxpayerUC *usecase.TaxpayerUseCase
	DebtUC     *usecase.DebtUseCase
	ConfigUC   *usecase.ConfigUseCase
	PaymentUC  *caja.PaymentUseCase
	RequestUC  *tramites.RequestUseCase
	Bus        *realtime.Bus
	PDFGen     *pdf.MarotoPDFGenerator
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público; el registro de operadores lo hace un ADMIN.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/register", admin, authHandler.Register)

	// Contribuyentes (protegido)
	taxpayerHandler := NewTaxpayerHandler(deps.TaxpayerUC, deps.DebtUC, deps.PDFGen)
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.TaxpayerUC, deps.PDFGen)
	contribuyentes := protected.Group("/contribuyentes")
	contribuyentes.Post("/", taxpayerHandler.Create)
	contribuyentes.Get("/", taxpayerHandler.List)
	contribuyentes.Get("/buscar", taxpayerHandler.Search)
	contribuyentes.Get("/:id", taxpayerHandler.GetByID)
	contribuyentes.Put("/:id", taxpayerHandler.Update)
	contribuyentes.Patch("/:id/estado", admin, taxpayerHandler.ChangeStatus)
	contribuyentes.Get("/:id/deudas", taxpayerHandler.Debts)
	contribuyentes.Get("/:id/pagos", paymentHandler.ListByTaxpayer)
	contribuyentes.Get("/:id/pazysalvo", taxpayerHandler.PazYSalvo)

	// Pagos (protegido)
	pagos := protected.Group("/pagos")
	pagos.Post("/", paymentHandler.Record)
	pagos.Get("/", paymentHandler.ListByDate)
	pagos.Get("/pendientes", paymentHandler.Pending)
	pagos.Post("/sincronizar", paymentHandler.Sync)
	pagos.Get("/:id", paymentHandler.GetByID)
	pagos.Get("/:id/recibo", paymentHandler.Receipt)

	// Solicitudes administrativas (protegido; resolver solo ADMIN)
	requestHandler := NewRequestHandler(deps.RequestUC)
	solicitudes := protected.Group("/solicitudes")
	solicitudes.Post("/", requestHandler.Create)
	solicitudes.Get("/pendientes", requestHandler.ListPending)
	solicitudes.Get("/resueltas", requestHandler.ListResolved)
	solicitudes.Get("/:id", requestHandler.GetByID)
	solicitudes.Post("/:id/aprobar", admin, requestHandler.Approve)
	solicitudes.Post("/:id/rechazar", admin, requestHandler.Reject)
	solicitudes.Post("/:id/archivar", requestHandler.Archive)

	// Tarifas y morosidad
	configHandler := NewConfigHandler(deps.ConfigUC, deps.DebtUC)
	protected.Get("/tarifas", configHandler.Get)
	protected.Put("/tarifas", admin, configHandler.Save)
	protected.Get("/morosidad", admin, configHandler.Morosidad)

	// Eventos en tiempo real (SSE)
	eventsHandler := NewEventsHandler(deps.Bus)
	protected.Get("/eventos", eventsHandler.Stream)
}
