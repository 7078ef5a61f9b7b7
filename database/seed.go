package database

import (
	"context"
	"fmt"

	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/models"
	"healthdir_backend/internal/repositories/memory"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedID maps a fixture ID onto the uuid primary keys of the schema.
// Valid uuids pass through; anything else gets a stable name-based uuid.
func SeedID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("healthdir:"+id)).String()
}

func seedRef(id *string) *string {
	if id == nil {
		return nil
	}
	mapped := SeedID(*id)
	return &mapped
}

// SeedDirectory inserts seed in one transaction when the directory is empty.
// It reports whether anything was written.
func SeedDirectory(ctx context.Context, db *gorm.DB, seed memory.Seed) (bool, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Hospital{}).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to check for existing hospitals: %w", err)
	}
	if existing > 0 {
		logger.Info("Directory already populated. Skipping seed.", "hospitals", existing)
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inactive []string
		for i := range seed.Users {
			u := seed.Users[i]
			u.ID = SeedID(u.ID)
			u.Profile, u.Doctor = nil, nil
			if !u.IsActive {
				inactive = append(inactive, u.ID)
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", seed.Users[i].Email, err)
			}
		}
		// is_active defaults to true, so a false value is skipped on insert.
		if len(inactive) > 0 {
			if err := tx.Model(&models.User{}).Where("id IN ?", inactive).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("deactivate users: %w", err)
			}
		}

		for i := range seed.Profiles {
			p := seed.Profiles[i]
			p.ID, p.UserID = SeedID(p.ID), SeedID(p.UserID)
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create profile %s: %w", seed.Profiles[i].ID, err)
			}
		}

		for i := range seed.Hospitals {
			h := seed.Hospitals[i]
			h.ID = SeedID(h.ID)
			h.Doctors, h.Departments, h.Reviews = nil, nil, nil
			if err := tx.Create(&h).Error; err != nil {
				return fmt.Errorf("create hospital %s: %w", seed.Hospitals[i].Name, err)
			}
		}

		for i := range seed.Departments {
			d := seed.Departments[i]
			d.ID, d.HospitalID = SeedID(d.ID), SeedID(d.HospitalID)
			d.Hospital, d.Doctors = nil, nil
			if err := tx.Create(&d).Error; err != nil {
				return fmt.Errorf("create department %s: %w", seed.Departments[i].Name, err)
			}
		}

		for i := range seed.Doctors {
			d := seed.Doctors[i]
			d.ID, d.UserID = SeedID(d.ID), SeedID(d.UserID)
			d.HospitalID, d.DepartmentID = seedRef(d.HospitalID), seedRef(d.DepartmentID)
			d.User, d.Hospital, d.Department, d.Reviews = nil, nil, nil, nil
			if err := tx.Create(&d).Error; err != nil {
				return fmt.Errorf("create doctor %s: %w", seed.Doctors[i].ID, err)
			}
		}

		for i := range seed.Reviews {
			r := seed.Reviews[i]
			r.ID = SeedID(r.ID)
			r.DoctorID, r.HospitalID, r.PatientID = seedRef(r.DoctorID), seedRef(r.HospitalID), seedRef(r.PatientID)
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("create review %s: %w", seed.Reviews[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Info("Directory seeded",
		"hospitals", len(seed.Hospitals),
		"departments", len(seed.Departments),
		"doctors", len(seed.Doctors),
		"reviews", len(seed.Reviews),
	)
	return true, nil
}
