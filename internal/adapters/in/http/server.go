// Package http exposes the order ledger over a small JSON API.
//
// Requests act on behalf of the Telegram user named in the X-User-ID
// header, so the API drives exactly the same façade requests as the bot
// buttons do. The header is trusted as sent and nothing authenticates the
// caller: the API is for trusted internal callers only and must not be
// exposed publicly.
//
// Routes are described by the embedded openapi.yaml. Requests are
// validated against it before a handler runs, and the document is served
// at /openapi.yaml and through the swagger UI at /swagger/.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"truckbot/internal/core/application/dispatch"
	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/application/usecases/queries"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// ActorHeader carries the id of the user performing the request.
const ActorHeader = "X-User-ID"

const defaultOpenOrdersLimit = 50

// Dispatcher is the part of dispatch.Facade the API drives.
type Dispatcher interface {
	SubmitOrder(ctx context.Context, customerID int64, fields dispatch.OrderFields) dispatch.Result
	RequestClaim(ctx context.Context, driverID int64, orderID order.ID) dispatch.Result
	RequestConfirm(ctx context.Context, driverID int64, orderID order.ID) dispatch.Result
	RequestRelease(ctx context.Context, driverID int64, orderID order.ID) dispatch.Result
	WithdrawOrder(ctx context.Context, customerID int64, orderID order.ID) dispatch.Result
}

// Server handles the HTTP API.
type Server struct {
	dispatcher Dispatcher

	// Command handlers
	registerUserHandler commands.RegisterUserCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getOpenOrdersHandler   queries.GetOpenOrdersQueryHandler
	getDriverStatusHandler queries.GetDriverStatusQueryHandler

	log *zap.Logger
}

// NewServer creates the API handlers. The dispatcher serves every order
// action; the query handlers serve reads and never go through it.
func NewServer(
	dispatcher Dispatcher,
	registerUserHandler commands.RegisterUserCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
	getDriverStatusHandler queries.GetDriverStatusQueryHandler,
	log *zap.Logger,
) *Server {
	return &Server{
		dispatcher:             dispatcher,
		registerUserHandler:    registerUserHandler,
		getOrderHandler:        getOrderHandler,
		getOpenOrdersHandler:   getOpenOrdersHandler,
		getDriverStatusHandler: getDriverStatusHandler,
		log:                    log.With(zap.String("component", "http")),
	}
}

// RegisterRoutes mounts the API on e. It fails when the embedded API
// document does not load.
func (s *Server) RegisterRoutes(e *echo.Echo) error {
	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	validator, err := s.requestValidator(doc)
	if err != nil {
		return err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return err
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", openapiSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validator)
	api.POST("/users", s.RegisterUser)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOpenOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/claim", s.orderAction(s.dispatcher.RequestClaim))
	api.POST("/orders/:id/confirm", s.orderAction(s.dispatcher.RequestConfirm))
	api.POST("/orders/:id/release", s.orderAction(s.dispatcher.RequestRelease))
	api.POST("/orders/:id/withdraw", s.orderAction(s.dispatcher.WithdrawOrder))
	api.GET("/drivers/:id/status", s.GetDriverStatus)

	return nil
}

// RegisterUser handles POST /api/v1/users - creates or updates the caller.
func (s *Server) RegisterUser(ctx echo.Context) error {
	actorID, err := actor(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var body NewUser
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	role, err := user.ParseRole(strings.ToUpper(strings.TrimSpace(body.Role)))
	if err != nil {
		return badRequest(ctx, "Invalid role: "+err.Error())
	}
	carModel, err := user.ParseCarModel(strings.ToLower(strings.TrimSpace(body.CarModel)))
	if err != nil {
		return badRequest(ctx, "Invalid car model: "+err.Error())
	}

	cmd, err := commands.NewRegisterUserCommand(actorID, body.Username, role, body.Phone, carModel)
	if err != nil {
		return badRequest(ctx, "Invalid user data: "+err.Error())
	}

	u, err := s.registerUserHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case errors.Is(err, user.ErrHasActiveOrder):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Role cannot change while an order is held",
		})
	case err != nil:
		s.log.Error("register user failed", zap.Int64("user_id", actorID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to register user",
		})
	}

	return ctx.JSON(http.StatusOK, User{
		ID:       u.ID(),
		Username: u.Username(),
		Role:     u.Role().String(),
		Phone:    u.Phone(),
		CarModel: string(u.CarModel()),
	})
}

// CreateOrder handles POST /api/v1/orders - posts and broadcasts a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actorID, err := actor(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	res := s.dispatcher.SubmitOrder(ctx.Request().Context(), actorID, dispatch.OrderFields{
		Cargo:    body.Cargo,
		FromAddr: body.FromAddr,
		ToAddr:   body.ToAddr,
		Phone:    body.Phone,
	})
	if !res.IsOK() {
		return outcomeError(ctx, res)
	}

	return ctx.JSON(http.StatusCreated, actionResult(res))
}

// GetOpenOrders handles GET /api/v1/orders - lists orders waiting for a driver.
func (s *Server) GetOpenOrders(ctx echo.Context) error {
	var param *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &param); err != nil {
		return badRequest(ctx, "Invalid limit")
	}
	limit := defaultOpenOrdersLimit
	if param != nil {
		limit = *param
	}

	query, err := queries.NewGetOpenOrdersQuery(limit)
	if err != nil {
		return badRequest(ctx, "Invalid limit: "+err.Error())
	}

	views, err := s.getOpenOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.log.Error("open orders query failed", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]Order, len(views))
	for i, v := range views {
		response[i] = toOrder(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id - returns the current order state.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := orderParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Outcome: dispatch.NotFound.String(),
			Message: "Order not found",
		})
	case err != nil:
		s.log.Error("order query failed", zap.Stringer("order_id", orderID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	return ctx.JSON(http.StatusOK, toOrder(view))
}

// GetDriverStatus handles GET /api/v1/drivers/:id/status.
func (s *Server) GetDriverStatus(ctx echo.Context) error {
	var driverID int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &driverID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	query, err := queries.NewGetDriverStatusQuery(driverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	view, err := s.getDriverStatusHandler.Handle(ctx.Request().Context(), query)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Outcome: dispatch.NotFound.String(),
			Message: "User not found",
		})
	case err != nil:
		s.log.Error("driver status query failed", zap.Int64("driver_id", driverID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve driver status",
		})
	}

	return ctx.JSON(http.StatusOK, toDriverStatus(view))
}

type orderRequest func(ctx context.Context, actorID int64, orderID order.ID) dispatch.Result

func (s *Server) orderAction(request orderRequest) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		actorID, err := actor(ctx)
		if err != nil {
			return unauthorized(ctx)
		}
		orderID, err := orderParam(ctx)
		if err != nil {
			return badRequest(ctx, "Invalid order id")
		}

		res := request(ctx.Request().Context(), actorID, orderID)
		if !res.IsOK() {
			return outcomeError(ctx, res)
		}
		return ctx.JSON(http.StatusOK, actionResult(res))
	}
}

var (
	errInvalidActor = errors.New("missing or invalid " + ActorHeader + " header")
	errInvalidOrder = errors.New("order id must be a positive integer")
)

func actor(ctx echo.Context) (int64, error) {
	values := ctx.Request().Header.Values(ActorHeader)
	if len(values) != 1 {
		return 0, errInvalidActor
	}

	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", ActorHeader, strings.TrimSpace(values[0]), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationHeader,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id <= 0 {
		return 0, errInvalidActor
	}
	return id, nil
}

func orderParam(ctx echo.Context) (order.ID, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id <= 0 {
		return 0, errInvalidOrder
	}
	return order.ID(id), nil
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, Error{
		Code:    http.StatusUnauthorized,
		Message: errInvalidActor.Error(),
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Outcome: dispatch.ValidationFailed.String(),
		Message: message,
	})
}

func actionResult(res dispatch.Result) ActionResult {
	r := ActionResult{
		Outcome: res.Outcome.String(),
		OrderID: int64(res.OrderID),
		Message: res.Reply,
	}
	if res.Order != nil {
		r.Status = res.Order.Status().String()
	}
	return r
}
