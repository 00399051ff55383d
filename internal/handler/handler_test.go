package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dragonglobal/pos-system/internal/middleware"
	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/repository"
	"github.com/dragonglobal/pos-system/internal/service"
)

type stubService struct {
	registerUser *model.User
	registerErr  error

	authUser *model.User
	authErr  error

	saveDraftOrder *model.Order
	saveDraftIn    service.OrderInput
	saveDraftErr   error

	completeOrder *model.Order
	completeErr   error

	markReadyErr error

	orderResp *model.Order
	orderErr  error

	ordersResp []model.Order
	ordersErr  error

	startDaySession *model.DaySession
	startDayErr     error

	endDaySession *model.DaySession
	endDayErr     error

	currentSession *model.DaySession
	currentErr     error

	historyResp []model.DaySession
	historyErr  error

	saveProfile       *model.CustomerProfile
	saveProfileResult service.ProfileSaveOutcome
	saveProfileErr    error

	profileResp  *model.CustomerProfile
	profileErr   error
	profilesResp []model.CustomerProfile

	menuResp []model.MenuItem

	roomsResp []model.Room

	settingsResp *model.RestaurantSettings

	usersResp []model.User

	insightText string
	insightErr  error
}

func (s *stubService) RegisterUser(ctx context.Context, username, password, name, phone string) (*model.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubService) AuthenticateUser(ctx context.Context, username, password string) (*model.User, error) {
	return s.authUser, s.authErr
}

func (s *stubService) SaveDraft(ctx context.Context, in service.OrderInput) (*model.Order, error) {
	s.saveDraftIn = in
	return s.saveDraftOrder, s.saveDraftErr
}

func (s *stubService) CompleteOrder(ctx context.Context, in service.OrderInput) (*model.Order, error) {
	return s.completeOrder, s.completeErr
}

func (s *stubService) MarkReady(ctx context.Context, orderID string) error {
	return s.markReadyErr
}

func (s *stubService) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	return s.ordersResp, s.ordersErr
}

func (s *stubService) KitchenQueue(ctx context.Context) ([]model.Order, error) {
	return s.ordersResp, s.ordersErr
}

func (s *stubService) CompletedOrders(ctx context.Context) ([]model.Order, error) {
	return s.ordersResp, s.ordersErr
}

func (s *stubService) StartDay(ctx context.Context, openingFloat decimal.Decimal, operatorName string) (*model.DaySession, error) {
	return s.startDaySession, s.startDayErr
}

func (s *stubService) EndDay(ctx context.Context, closingFloat decimal.Decimal, operatorName string) (*model.DaySession, error) {
	return s.endDaySession, s.endDayErr
}

func (s *stubService) CurrentSession(ctx context.Context) (*model.DaySession, error) {
	return s.currentSession, s.currentErr
}

func (s *stubService) SessionHistory(ctx context.Context) ([]model.DaySession, error) {
	return s.historyResp, s.historyErr
}

func (s *stubService) SaveCustomerProfile(ctx context.Context, snapshot model.Customer) (*model.CustomerProfile, service.ProfileSaveOutcome, error) {
	return s.saveProfile, s.saveProfileResult, s.saveProfileErr
}

func (s *stubService) UpdateCustomerProfile(ctx context.Context, profile *model.CustomerProfile) error {
	return s.profileErr
}

func (s *stubService) DeleteCustomerProfile(ctx context.Context, id string) error {
	return s.profileErr
}

func (s *stubService) FindCustomerByPhone(ctx context.Context, phone string) (*model.CustomerProfile, error) {
	return s.profileResp, s.profileErr
}

func (s *stubService) CustomerProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error) {
	return s.profileResp, s.profileErr
}

func (s *stubService) ListCustomerProfiles(ctx context.Context) ([]model.CustomerProfile, error) {
	return s.profilesResp, nil
}

func (s *stubService) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return s.menuResp, nil
}

func (s *stubService) AddMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	return &item, nil
}

func (s *stubService) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	return nil
}

func (s *stubService) DeleteMenuItem(ctx context.Context, id string) error {
	return nil
}

func (s *stubService) Rooms(ctx context.Context) ([]model.Room, error) {
	return s.roomsResp, nil
}

func (s *stubService) SetRoomStatus(ctx context.Context, roomID string, status model.RoomStatus) error {
	return nil
}

func (s *stubService) Settings(ctx context.Context) (*model.RestaurantSettings, error) {
	return s.settingsResp, nil
}

func (s *stubService) UpdateSettings(ctx context.Context, settings model.RestaurantSettings) error {
	return nil
}

func (s *stubService) ListEmployees(ctx context.Context) ([]model.User, error) {
	return s.usersResp, nil
}

func (s *stubService) AddEmployee(ctx context.Context, username, password, name, phone string, role model.Role) (*model.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubService) UpdateEmployee(ctx context.Context, user model.User, newPassword string) error {
	return nil
}

func (s *stubService) DeleteEmployee(ctx context.Context, id, currentUserID string) error {
	return nil
}

func (s *stubService) GenerateSalesInsight(ctx context.Context) (string, error) {
	return s.insightText, s.insightErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-secret")

	return NewHandler(svc, logger, auth)
}

func authCookie(t *testing.T, h *Handler, user *model.User) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	h.authMiddleware.SetAuthCookie(rec, user)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("SetAuthCookie did not set a cookie")
	}
	return cookies[0]
}

func TestRegister_Success(t *testing.T) {
	svc := &stubService{
		registerUser: &model.User{ID: "u1", Username: "anna", Name: "Anna", Role: model.RoleAdmin},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{
		Username: "anna",
		Password: "pass",
		Name:     "Anna",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if len(res.Cookies()) == 0 {
		t.Fatalf("register must set the auth cookie")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubService{
		authErr: service.ErrInvalidCredentials,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{
		Username: "anna",
		Password: "wrong",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestSaveDraft_ServerNameFromCookie(t *testing.T) {
	svc := &stubService{
		saveDraftOrder: &model.Order{ID: "o1", Status: model.OrderStatusOpen},
	}
	h := newTestHandler(t, svc)

	in := service.OrderInput{
		Items:         []service.OrderItemInput{{MenuItemID: "dish-1", Quantity: 1}},
		PaymentMethod: model.PaymentCash,
		OrderType:     model.OrderTypeTakeAway,
		ServerName:    "spoofed",
	}
	body, _ := json.Marshal(in)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.AddCookie(authCookie(t, h, &model.User{ID: "u1", Name: "Anna", Role: model.RoleWorker}))

	rec := httptest.NewRecorder()
	handlerWithAuth := h.authMiddleware.Middleware(http.HandlerFunc(h.SaveDraft))
	handlerWithAuth.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if svc.saveDraftIn.ServerName != "Anna" {
		t.Fatalf("ServerName = %q, want operator name from cookie", svc.saveDraftIn.ServerName)
	}
}

func TestSaveDraft_EmptyOrderUnprocessable(t *testing.T) {
	svc := &stubService{
		saveDraftErr: service.ErrEmptyOrder,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(service.OrderInput{PaymentMethod: model.PaymentCash, OrderType: model.OrderTypeTakeAway})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SaveDraft(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestCompleteOrder_ConflictOnCompleted(t *testing.T) {
	svc := &stubService{
		completeErr: repository.ErrInvalidTransition,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(service.OrderInput{
		OrderID:       "o1",
		Items:         []service.OrderItemInput{{MenuItemID: "dish-1", Quantity: 1}},
		PaymentMethod: model.PaymentCash,
		OrderType:     model.OrderTypeTakeAway,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/complete", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CompleteOrder(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusConflict)
	}
}

func TestMarkReady_NotFound(t *testing.T) {
	svc := &stubService{
		markReadyErr: repository.ErrOrderNotFound,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/missing/ready", nil)
	rec := httptest.NewRecorder()

	h.MarkReady(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}

func TestGetOrders_NoContent(t *testing.T) {
	svc := &stubService{
		ordersResp: []model.Order{},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()

	h.GetOrders(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNoContent)
	}
}

func TestGetOrders_UnknownView(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders?view=bogus", nil)
	rec := httptest.NewRecorder()

	h.GetOrders(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestStartDay_Created(t *testing.T) {
	svc := &stubService{
		startDaySession: &model.DaySession{ID: "s1", Status: model.SessionActive},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(startDayRequest{OpeningFloat: decimal.RequireFromString("5000")})

	req := httptest.NewRequest(http.MethodPost, "/api/day/start", bytes.NewReader(body))
	req.AddCookie(authCookie(t, h, &model.User{ID: "u1", Name: "Anna", Role: model.RoleAdmin}))

	rec := httptest.NewRecorder()
	handlerWithAuth := h.authMiddleware.Middleware(http.HandlerFunc(h.StartDay))
	handlerWithAuth.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}
}

func TestStartDay_ConflictOnSecondSession(t *testing.T) {
	svc := &stubService{
		startDayErr: repository.ErrSessionAlreadyActive,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(startDayRequest{OpeningFloat: decimal.Zero})

	req := httptest.NewRequest(http.MethodPost, "/api/day/start", bytes.NewReader(body))
	req.AddCookie(authCookie(t, h, &model.User{ID: "u1", Name: "Anna", Role: model.RoleAdmin}))

	rec := httptest.NewRecorder()
	handlerWithAuth := h.authMiddleware.Middleware(http.HandlerFunc(h.StartDay))
	handlerWithAuth.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusConflict)
	}
}

func TestCurrentSession_NoContentWithoutActive(t *testing.T) {
	svc := &stubService{
		currentErr: repository.ErrNoActiveSession,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/day/current", nil)
	rec := httptest.NewRecorder()

	h.CurrentSession(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNoContent)
	}
}

func TestSaveCustomer_Created(t *testing.T) {
	svc := &stubService{
		saveProfile:       &model.CustomerProfile{ID: "c1", Name: "Ivan", Phone: "+7111"},
		saveProfileResult: service.ProfileCreated,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(model.Customer{Name: "Ivan", Phone: "+7111"})

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SaveCustomer(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var resp saveCustomerResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result != "created" {
		t.Fatalf("result = %q, want created", resp.Result)
	}
}

func TestSaveCustomer_AlreadyExistsIsNotAnError(t *testing.T) {
	svc := &stubService{
		saveProfile:       &model.CustomerProfile{ID: "c1", Name: "Ivan", Phone: "+7111"},
		saveProfileResult: service.ProfileUnchanged,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(model.Customer{Name: "Ivan", Phone: "+7111"})

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SaveCustomer(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var resp saveCustomerResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result != "already_exists" {
		t.Fatalf("result = %q, want already_exists", resp.Result)
	}
}

func TestListCustomers_FindByPhoneNotFound(t *testing.T) {
	svc := &stubService{
		profileErr: repository.ErrProfileNotFound,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/customers?phone=%2B7999", nil)
	rec := httptest.NewRecorder()

	h.ListCustomers(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}

func TestSalesInsight_UnavailableAssistant(t *testing.T) {
	svc := &stubService{
		insightErr: errors.New("connection refused"),
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/insight", nil)
	rec := httptest.NewRecorder()

	h.SalesInsight(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestRouter_AdminOnly(t *testing.T) {
	h := newTestHandler(t, &stubService{usersResp: []model.User{{ID: "u1"}}})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.AddCookie(authCookie(t, h, &model.User{ID: "u2", Name: "Boris", Role: model.RoleWorker}))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusForbidden)
	}
}
