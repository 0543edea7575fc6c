package services

import (
	"context"
	"regexp"

	"burrito-rater-api/captcha"
	"burrito-rater-api/geofence"
	"burrito-rater-api/identity"
	"burrito-rater-api/models"
	"burrito-rater-api/repository"
)

// ValidationError marks input problems the client can fix; handlers map it
// to a 400 with the message shown verbatim to the end user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// CreateRatingInput is the public submission payload. The CAPTCHA token and
// free-text address are consumed during validation and never persisted.
type CreateRatingInput struct {
	RestaurantName string  `json:"restaurantName" binding:"required"`
	BurritoTitle   string  `json:"burritoTitle" binding:"required"`
	Latitude       float64 `json:"latitude" binding:"required"`
	Longitude      float64 `json:"longitude" binding:"required"`
	Rating         float64 `json:"rating" binding:"required,min=1,max=5"`
	Taste          float64 `json:"taste" binding:"omitempty,min=1,max=5"`
	Value          float64 `json:"value" binding:"omitempty,min=1,max=5"`
	Price          float64 `json:"price" binding:"omitempty,gt=0"`

	HasPotatoes   bool `json:"hasPotatoes"`
	HasCheese     bool `json:"hasCheese"`
	HasBacon      bool `json:"hasBacon"`
	HasChorizo    bool `json:"hasChorizo"`
	HasAvocado    bool `json:"hasAvocado"`
	HasVegetables bool `json:"hasVegetables"`

	Review           *string `json:"review"`
	ReviewerName     string  `json:"reviewerName"`
	IdentityPassword *string `json:"identityPassword"`
	ReviewerEmoji    *string `json:"reviewerEmoji"`

	Zipcode        *string `json:"zipcode"`
	Address        string  `json:"address"`
	TurnstileToken string  `json:"turnstileToken"`
}

// zipcodeRe grabs the first standalone 5-digit run from a free-text address.
var zipcodeRe = regexp.MustCompile(`\b\d{5}\b`)

// RatingService owns the submission and moderation workflow. All
// collaborators are injected; there is no package-level state.
type RatingService struct {
	Repo     repository.RatingRepository
	Captcha  *captcha.Verifier
	Geofence *geofence.Validator
}

func NewRatingService(repo repository.RatingRepository, verifier *captcha.Verifier, fence *geofence.Validator) *RatingService {
	return &RatingService{Repo: repo, Captcha: verifier, Geofence: fence}
}

// Create validates a submission (CAPTCHA, then geofence), derives the
// reviewer identity, and persists the rating unconfirmed.
func (s *RatingService) Create(ctx context.Context, input CreateRatingInput, remoteIP string) (*models.Rating, error) {
	if err := s.Captcha.Verify(ctx, input.TurnstileToken, remoteIP); err != nil {
		return nil, invalid(err.Error())
	}
	if err := s.Geofence.Validate(ctx, input.Latitude, input.Longitude); err != nil {
		return nil, invalid(err.Error())
	}

	rating := &models.Rating{
		RestaurantName: input.RestaurantName,
		BurritoTitle:   input.BurritoTitle,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Zipcode:        input.Zipcode,
		Rating:         input.Rating,
		Taste:          input.Taste,
		Value:          input.Value,
		Price:          input.Price,
		HasPotatoes:    input.HasPotatoes,
		HasCheese:      input.HasCheese,
		HasBacon:       input.HasBacon,
		HasChorizo:     input.HasChorizo,
		HasAvocado:     input.HasAvocado,
		HasVegetables:  input.HasVegetables,
		Review:         input.Review,
		ReviewerName:   input.ReviewerName,
		// Moderation gate: every submission starts unconfirmed, no matter
		// what the payload claims.
		Confirmed: false,
	}

	if rating.ReviewerName == "" {
		rating.ReviewerName = "Anonymous"
	}

	if (rating.Zipcode == nil || *rating.Zipcode == "") && input.Address != "" {
		if zip := zipcodeRe.FindString(input.Address); zip != "" {
			rating.Zipcode = &zip
		}
	}

	if input.IdentityPassword != nil {
		if emoji, ok := identity.DeriveEmoji(*input.IdentityPassword); ok {
			rating.IdentityPassword = input.IdentityPassword
			rating.ReviewerEmoji = &emoji
		}
		// Out-of-range passphrases leave the reviewer anonymous.
	}

	if err := s.Repo.Create(rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) Get(id uint) (*models.Rating, error) {
	return s.Repo.FindByID(id)
}

func (s *RatingService) List(filter repository.ListFilter) ([]models.Rating, error) {
	return s.Repo.List(filter)
}

// updatableFields maps the JSON names an update may touch to their store
// columns. Everything except id and createdAt is fair game.
var updatableFields = map[string]string{
	"restaurantName":   "restaurant_name",
	"burritoTitle":     "burrito_title",
	"latitude":         "latitude",
	"longitude":        "longitude",
	"zipcode":          "zipcode",
	"rating":           "rating",
	"taste":            "taste",
	"value":            "value",
	"price":            "price",
	"hasPotatoes":      "has_potatoes",
	"hasCheese":        "has_cheese",
	"hasBacon":         "has_bacon",
	"hasChorizo":       "has_chorizo",
	"hasAvocado":       "has_avocado",
	"hasVegetables":    "has_vegetables",
	"review":           "review",
	"reviewerName":     "reviewer_name",
	"identityPassword": "identity_password",
	"reviewerEmoji":    "reviewer_emoji",
	"confirmed":        "confirmed",
}

// Update applies an allow-listed partial update. updatedAt refreshes even
// when only one field changes.
func (s *RatingService) Update(id uint, payload map[string]any) (*models.Rating, error) {
	fields := map[string]any{}
	for name, value := range payload {
		if column, ok := updatableFields[name]; ok {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		return nil, invalid("No fields to update")
	}
	return s.Repo.Update(id, fields)
}

func (s *RatingService) Confirm(id uint) error {
	return s.Repo.Confirm(id)
}

// ConfirmBulk confirms every existing id and reports how many rows changed;
// unknown ids are skipped, not errors.
func (s *RatingService) ConfirmBulk(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("Invalid or missing rating IDs")
	}
	return s.Repo.ConfirmAll(ids)
}

func (s *RatingService) Delete(id uint) error {
	return s.Repo.Delete(id)
}
