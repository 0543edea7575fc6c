package repository

import (
	"errors"

	"burrito-rater-api/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned for lookups of ids that do not exist.
var ErrNotFound = errors.New("Rating not found")

// ListFilter narrows a rating listing. Zero values mean "no filter";
// Confirmed is a pointer so confirmed=false can be filtered explicitly.
type ListFilter struct {
	Zipcode   string
	Confirmed *bool
	Limit     int
}

// RatingRepository is the persistence capability for ratings. Handlers and
// services hold one by interface so tests can swap the backing store.
type RatingRepository interface {
	Create(rating *models.Rating) error
	FindByID(id uint) (*models.Rating, error)
	List(filter ListFilter) ([]models.Rating, error)
	Update(id uint, fields map[string]any) (*models.Rating, error)
	Confirm(id uint) error
	ConfirmAll(ids []uint) (int64, error)
	Delete(id uint) error
}

// GormRatingRepository backs RatingRepository with the relational store.
type GormRatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{DB: db}
}

func (r *GormRatingRepository) Create(rating *models.Rating) error {
	return r.DB.Create(rating).Error
}

func (r *GormRatingRepository) FindByID(id uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.DB.First(&rating, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *GormRatingRepository) List(filter ListFilter) ([]models.Rating, error) {
	query := r.DB.Model(&models.Rating{})

	if filter.Zipcode != "" {
		query = query.Where("zipcode = ?", filter.Zipcode)
	}
	if filter.Confirmed != nil {
		query = query.Where("confirmed = ?", *filter.Confirmed)
	}

	// Newest first: the map and list views lean on this ordering.
	query = query.Order("created_at desc")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var ratings []models.Rating
	if err := query.Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *GormRatingRepository) Update(id uint, fields map[string]any) (*models.Rating, error) {
	rating, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	// Updates also refreshes updated_at, whatever the field set.
	if err := r.DB.Model(rating).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *GormRatingRepository) Confirm(id uint) error {
	rating, err := r.FindByID(id)
	if err != nil {
		return err
	}
	// Re-confirming stays a silent no-op state transition.
	return r.DB.Model(rating).Update("confirmed", true).Error
}

func (r *GormRatingRepository) ConfirmAll(ids []uint) (int64, error) {
	result := r.DB.Model(&models.Rating{}).
		Where("id IN ?", ids).
		Update("confirmed", true)
	return result.RowsAffected, result.Error
}

func (r *GormRatingRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Rating{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
