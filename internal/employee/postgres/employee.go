package postgres

import (
	"context"
	"errors"
	"time"

	employeeDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

// List returns every stored employee. No ordering is applied.
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var rows []*employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(rows), nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

// Create assigns a fresh id and stores the record.
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	row := employee.ToDataModel(e)
	row.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

// Update loads the record, merges the patch and writes only the touched
// columns inside one transaction.
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	var updated *employee.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row employeeDatamodel.Employee
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return err
		}

		e := employee.FromDataModel(&row)
		patch.Apply(e)
		e.UpdatedAt = time.Now()
		next := employee.ToDataModel(e)

		cols := append(patch.Columns(), "updated_at")
		if err := tx.Model(&row).Select(cols).Updates(next).Error; err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Replace overwrites every column except id, created_at and history.
func (r *EmployeeRepository) Replace(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	var updated *employee.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row employeeDatamodel.Employee
		if err := tx.Where("id = ?", e.ID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return err
		}

		next := employee.ToDataModel(e)
		next.ID = row.ID
		next.CreatedAt = row.CreatedAt
		next.History = row.History
		next.UpdatedAt = time.Now()

		if err := tx.Model(&row).Select("*").Omit("id", "created_at", "history").Updates(next).Error; err != nil {
			return err
		}
		updated = employee.FromDataModel(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes the record. Deleting an unknown id is NotFound.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
