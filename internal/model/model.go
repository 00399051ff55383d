// Package model содержит доменные сущности POS-сервиса.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
)

// OrderType описывает тип обслуживания заказа.
type OrderType string

const (
	OrderTypeDineIn      OrderType = "Dine-In"
	OrderTypeTakeAway    OrderType = "Take Away"
	OrderTypeRoomService OrderType = "Room Service"
)

// OrderStatus описывает статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

// Role описывает роль сотрудника.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// SessionStatus описывает статус кассовой смены.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// RoomStatus описывает состояние номера гостиницы.
type RoomStatus string

const (
	RoomVacant       RoomStatus = "Vacant"
	RoomOccupied     RoomStatus = "Occupied"
	RoomNeedsClean   RoomStatus = "Needs Cleaning"
	RoomOutOfService RoomStatus = "Out of Service"
)

// MenuItem описывает позицию меню.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description,omitempty"`
}

// LineItem — позиция заказа. Цена и название копируются из меню в момент
// сохранения: последующие изменения каталога не влияют на историю заказов.
type LineItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note,omitempty"`
}

// Customer — снимок данных клиента, сохраняемый в заказе по значению.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order описывает заказ. CreatedAt неизменяем после первого сохранения;
// завершённый заказ больше не редактируется.
type Order struct {
	ID                 string          `json:"id"`
	Items              []LineItem      `json:"items"`
	Customer           Customer        `json:"customer"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Tax                decimal.Decimal `json:"tax"`
	Total              decimal.Decimal `json:"total"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	OrderType          OrderType       `json:"order_type"`
	TableNumber        string          `json:"table_number,omitempty"`
	Status             OrderStatus     `json:"status"`
	ServerName         string          `json:"server_name,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// DaySession — кассовая смена от объявления разменного фонда до сверки.
type DaySession struct {
	ID           string          `json:"id"`
	StartedAt    time.Time       `json:"started_at"`
	EndedAt      *time.Time      `json:"ended_at,omitempty"`
	StartedBy    string          `json:"started_by"`
	EndedBy      string          `json:"ended_by,omitempty"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
	ClosingFloat decimal.Decimal `json:"closing_float"`
	CashSales    decimal.Decimal `json:"cash_sales"`
	CardSales    decimal.Decimal `json:"card_sales"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	Difference   decimal.Decimal `json:"difference"`
	Status       SessionStatus   `json:"status"`
	OrderIDs     []string        `json:"order_ids"`
}

// CustomerProfile — карточка клиента. Телефон является естественным ключом
// справочника. История заказов хранит только идентификаторы, поэтому
// удаление карточки не затрагивает сами заказы.
type CustomerProfile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email,omitempty"`
	Address      string   `json:"address,omitempty"`
	OrderHistory []string `json:"order_history"`
}

// User представляет сотрудника заведения.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Room описывает номер гостиницы.
type Room struct {
	ID     string     `json:"id"`
	Number string     `json:"number"`
	Status RoomStatus `json:"status"`
	Guest  *Customer  `json:"guest,omitempty"`
}

// RestaurantSettings — реквизиты заведения для печати чека.
type RestaurantSettings struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
