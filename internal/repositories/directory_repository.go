package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
)

// DirectoryRepository answers read-only directory lookups expressed as
// query trees.
type DirectoryRepository interface {
	Count(ctx context.Context, source query.Source, where query.Predicate) (int64, error)
	FindDoctors(ctx context.Context, find query.Find) ([]models.Doctor, error)
	FindHospitals(ctx context.Context, find query.Find) ([]models.Hospital, error)
	FindDepartments(ctx context.Context, find query.Find) ([]models.Department, error)
	// GroupBy counts rows matching where per distinct value of field.
	GroupBy(ctx context.Context, source query.Source, field string, where query.Predicate) ([]query.Group, error)
	Ping(ctx context.Context) error
}

type DirectoryRepositoryImpl struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &DirectoryRepositoryImpl{db: db}
}

// scoped starts a query on the source table with its joins and where clause.
func (r *DirectoryRepositoryImpl) scoped(ctx context.Context, s *sourceSchema, where query.Predicate) (*gorm.DB, error) {
	cond, args, err := compileWhere(s, where)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(s.model())
	for _, j := range s.joins {
		q = q.Joins(j)
	}
	if cond != "" {
		q = q.Where(cond, args...)
	}
	return q, nil
}

func (r *DirectoryRepositoryImpl) Count(ctx context.Context, source query.Source, where query.Predicate) (count int64, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "count", string(source), time.Since(start), err) }()

	s, err := schemaFor(source)
	if err != nil {
		return 0, err
	}
	q, err := r.scoped(ctx, s, where)
	if err != nil {
		return 0, err
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", source, err)
	}
	return count, nil
}

func (r *DirectoryRepositoryImpl) FindDoctors(ctx context.Context, find query.Find) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.find(ctx, query.SourceDoctor, find, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DirectoryRepositoryImpl) FindHospitals(ctx context.Context, find query.Find) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	if err := r.find(ctx, query.SourceHospital, find, &hospitals); err != nil {
		return nil, err
	}
	return hospitals, nil
}

func (r *DirectoryRepositoryImpl) FindDepartments(ctx context.Context, find query.Find) ([]models.Department, error) {
	var departments []models.Department
	if err := r.find(ctx, query.SourceDepartment, find, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *DirectoryRepositoryImpl) find(ctx context.Context, source query.Source, find query.Find, dest any) (err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "find", string(source), time.Since(start), err) }()

	s, err := schemaFor(source)
	if err != nil {
		return err
	}
	q, err := r.scoped(ctx, s, find.Where)
	if err != nil {
		return err
	}
	q = q.Select(s.table + ".*")

	for _, o := range find.OrderBy {
		clause, err := compileOrder(s, o)
		if err != nil {
			return err
		}
		q = q.Order(clause)
	}

	for _, inc := range find.Include {
		assoc, ok := s.preloads[inc]
		if !ok {
			return fmt.Errorf("%w: include %q on %s", ErrUnknownField, inc, s.table)
		}
		q = q.Preload(assoc)
	}

	if find.Skip > 0 {
		q = q.Offset(find.Skip)
	}
	if find.Take > 0 {
		q = q.Limit(find.Take)
	}

	if err := q.Find(dest).Error; err != nil {
		return fmt.Errorf("find %s: %w", source, err)
	}
	return nil
}

type groupRow struct {
	Value string
	Count int64
}

func (r *DirectoryRepositoryImpl) GroupBy(ctx context.Context, source query.Source, field string, where query.Predicate) (groups []query.Group, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "group_by", string(source)+"."+field, time.Since(start), err) }()

	s, err := schemaFor(source)
	if err != nil {
		return nil, err
	}
	col, err := s.column(field)
	if err != nil {
		return nil, err
	}
	q, err := r.scoped(ctx, s, where)
	if err != nil {
		return nil, err
	}

	var rows []groupRow
	err = q.Select(col + " AS value, COUNT(*) AS count").
		Group(col).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("group %s by %s: %w", source, field, err)
	}

	groups = make([]query.Group, len(rows))
	for i, row := range rows {
		groups[i] = query.Group{Value: row.Value, Count: row.Count}
	}
	return groups, nil
}

func (r *DirectoryRepositoryImpl) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
