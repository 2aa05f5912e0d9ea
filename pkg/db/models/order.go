package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/enums"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

// Order is the header created once at checkout; afterwards only the status
// fields move.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;type:varchar(50);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;type:varchar(20);not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:varchar(50)"`
	PaymentIntentID *string             `gorm:"column:payment_intent_id;type:varchar(200);uniqueIndex"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax             decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null"`
	Shipping        decimal.Decimal     `gorm:"column:shipping;type:numeric(10,2);not null"`
	Discount        decimal.Decimal     `gorm:"column:discount;type:numeric(10,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Notes           *string             `gorm:"column:notes"`
	TrackingNumber  *string             `gorm:"column:tracking_number;type:varchar(100)"`
	ShippedAt       *time.Time          `gorm:"column:shipped_at"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
