package memory

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	"healthdir_backend/internal/models"
)

// seedFile is the hand-editable fixture layout: hospitals own their
// departments, doctors carry their user and profile details inline, and
// reviews are plain rating lists.
type seedFile struct {
	Hospitals []seedHospital `yaml:"hospitals"`
	Doctors   []seedDoctor   `yaml:"doctors"`
}

type seedHospital struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Address     string           `yaml:"address"`
	City        string           `yaml:"city"`
	ImageURL    string           `yaml:"image_url"`
	Verified    bool             `yaml:"verified"`
	CreatedAt   time.Time        `yaml:"created_at"`
	Services    []string         `yaml:"services"`
	Ratings     []int            `yaml:"ratings"`
	Departments []seedDepartment `yaml:"departments"`
}

type seedDepartment struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	CreatedAt   time.Time `yaml:"created_at"`
}

type seedDoctor struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Email          string    `yaml:"email"`
	Active         *bool     `yaml:"active"`
	City           string    `yaml:"city"`
	Gender         string    `yaml:"gender"`
	ImageURL       string    `yaml:"image_url"`
	Specialization string    `yaml:"specialization"`
	Experience     string    `yaml:"experience"`
	Fee            float64   `yaml:"fee"`
	Languages      []string  `yaml:"languages"`
	Verified       bool      `yaml:"verified"`
	Status         string    `yaml:"status"`
	Hospital       string    `yaml:"hospital"`
	Department     string    `yaml:"department"`
	CreatedAt      time.Time `yaml:"created_at"`
	Ratings        []int     `yaml:"ratings"`
}

// LoadSeedFile reads a YAML fixture from path.
func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed converts the YAML fixture layout into a flat Seed.
func ParseSeed(raw []byte) (Seed, error) {
	var f seedFile
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}

	var seed Seed
	for _, h := range f.Hospitals {
		id := orNewID(h.ID)
		seed.Hospitals = append(seed.Hospitals, models.Hospital{
			BaseModel:   models.BaseModel{ID: id, CreatedAt: h.CreatedAt},
			Name:        h.Name,
			Description: h.Description,
			Address:     h.Address,
			City:        h.City,
			ImageURL:    h.ImageURL,
			IsVerified:  h.Verified,
			Services:    h.Services,
		})
		for _, d := range h.Departments {
			seed.Departments = append(seed.Departments, models.Department{
				BaseModel:   models.BaseModel{ID: orNewID(d.ID), CreatedAt: d.CreatedAt},
				Name:        d.Name,
				Description: d.Description,
				HospitalID:  id,
			})
		}
		for _, rating := range h.Ratings {
			r, err := review(rating)
			if err != nil {
				return Seed{}, fmt.Errorf("hospital %q: %w", h.Name, err)
			}
			r.HospitalID = &id
			seed.Reviews = append(seed.Reviews, r)
		}
	}

	for _, d := range f.Doctors {
		id := orNewID(d.ID)
		userID := id + "-user"

		active := true
		if d.Active != nil {
			active = *d.Active
		}
		email := d.Email
		if email == "" {
			// users.email is unique and not null
			email = userID + "@seed.invalid"
		}
		seed.Users = append(seed.Users, models.User{
			BaseModel: models.BaseModel{ID: userID, CreatedAt: d.CreatedAt},
			Name:      d.Name,
			Email:     email,
			Role:      models.UserRoleDoctor,
			IsActive:  active,
		})

		gender := models.Gender(d.Gender)
		if g, ok := models.ParseGender(d.Gender); ok {
			gender = g
		}
		seed.Profiles = append(seed.Profiles, models.Profile{
			BaseModel: models.BaseModel{ID: id + "-profile"},
			UserID:    userID,
			City:      d.City,
			Gender:    gender,
			ImageURL:  d.ImageURL,
		})

		status := models.DoctorStatus(d.Status)
		if status == "" {
			status = models.DoctorStatusPending
		}
		seed.Doctors = append(seed.Doctors, models.Doctor{
			BaseModel:       models.BaseModel{ID: id, CreatedAt: d.CreatedAt},
			UserID:          userID,
			HospitalID:      optional(d.Hospital),
			DepartmentID:    optional(d.Department),
			Specialization:  d.Specialization,
			Experience:      d.Experience,
			ConsultationFee: d.Fee,
			Languages:       d.Languages,
			IsVerified:      d.Verified,
			Status:          status,
		})

		for _, rating := range d.Ratings {
			r, err := review(rating)
			if err != nil {
				return Seed{}, fmt.Errorf("doctor %q: %w", d.Name, err)
			}
			r.DoctorID = &id
			seed.Reviews = append(seed.Reviews, r)
		}
	}
	return seed, nil
}

func review(rating int) (models.Review, error) {
	if rating < 1 || rating > models.MaxRating {
		return models.Review{}, fmt.Errorf("rating %d out of range 1..%d", rating, models.MaxRating)
	}
	return models.Review{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Rating:    rating,
	}, nil
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
