package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
)

// AggregateModel holds the identity, timestamp and version columns shared by
// the products, carts and orders tables. Version backs the optimistic lock
// in the repositories' UPDATE ... WHERE version = ? statements.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

func aggregateModel(a shared.Aggregate) AggregateModel {
	return AggregateModel{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Version:   a.Version,
	}
}

// ToDomainAggregate rebuilds the embedded aggregate; no events are pending
// on a freshly loaded row
func (m AggregateModel) ToDomainAggregate() shared.Aggregate {
	return shared.Aggregate{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
}
