package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AthrunAshy/flasky/internal/core/domain"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) FindDefault(ctx context.Context) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("\"default\" = ?", true).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find default role: %w", err)
	}
	return &role, nil
}

// FindWithPermission matches on exact bit containment, the same predicate
// as domain.HasPermission, pushed into SQL.
func (r *RoleRepository) FindWithPermission(ctx context.Context, perm domain.Permission) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).
		Where("permissions & ? = ?", int(perm), int(perm)).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role by permission: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) Save(ctx context.Context, role *domain.Role) error {
	if err := r.db.WithContext(ctx).Save(role).Error; err != nil {
		return fmt.Errorf("save role: %w", err)
	}
	return nil
}
