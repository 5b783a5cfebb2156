package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reseller is an independent business that receives delivered ticket stock.
// CommissionOverrideBps nil or 0 means "use the global default".
type Reseller struct {
	ID                    snowflake.ID `json:"id" gorm:"primaryKey"`
	BusinessName          string       `json:"business_name" gorm:"type:text;not null"`
	ResponsibleName       string       `json:"responsible_name" gorm:"type:text;not null;default:''"`
	Phone                 string       `json:"phone" gorm:"type:text;not null;default:''"`
	Address               string       `json:"address" gorm:"type:text;not null;default:''"`
	Active                bool         `json:"active" gorm:"not null;default:true"`
	CommissionOverrideBps *int32       `json:"commission_override_bps,omitempty"`
	CreatedAt             time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt             time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Reseller) TableName() string { return "resellers" }
