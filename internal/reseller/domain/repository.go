package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *Reseller) error
	Update(ctx context.Context, db *gorm.DB, r *Reseller) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Reseller, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Reseller, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteDependents(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
