package services

import (
	"context"
	"testing"

	"burrito-rater-api/captcha"
	"burrito-rater-api/geofence"
	"burrito-rater-api/models"
	"burrito-rater-api/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testToken passes the CAPTCHA check without any network call.
const testToken = "test_verification_token_abc"

func setupService(t *testing.T) *RatingService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Rating{}))

	repo := repository.NewRatingRepository(db)
	verifier := captcha.NewVerifier("", false)
	fence := geofence.NewValidator(false, "")
	return NewRatingService(repo, verifier, fence)
}

func validInput() CreateRatingInput {
	return CreateRatingInput{
		RestaurantName: "Taco X",
		BurritoTitle:   "Carne Asada",
		Latitude:       34.05,
		Longitude:      -118.24,
		Rating:         4.5,
		Taste:          4,
		Value:          5,
		Price:          8.99,
		TurnstileToken: testToken,
	}
}

func TestCreate_StartsUnconfirmed(t *testing.T) {
	svc := setupService(t)

	rating, err := svc.Create(context.Background(), validInput(), "")
	require.NoError(t, err)
	require.NotZero(t, rating.ID)
	assert.False(t, rating.Confirmed)
	assert.Equal(t, "Anonymous", rating.ReviewerName)
	assert.False(t, rating.CreatedAt.IsZero())

	// round trip: system-assigned fields aside, the stored row matches
	found, err := svc.Get(rating.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.RestaurantName, found.RestaurantName)
	assert.Equal(t, rating.Rating, found.Rating)
	assert.False(t, found.Confirmed)
}

func TestCreate_GeofenceRejects(t *testing.T) {
	svc := setupService(t)

	input := validInput()
	input.Latitude = 48.8566
	input.Longitude = 2.3522

	_, err := svc.Create(context.Background(), input, "")
	require.Error(t, err)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Location must be in the USA", validation.Message)
}

func TestCreate_MissingCaptcha(t *testing.T) {
	svc := setupService(t)

	input := validInput()
	input.TurnstileToken = ""

	_, err := svc.Create(context.Background(), input, "")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "CAPTCHA verification required", validation.Message)
}

func TestCreate_DerivesZipcodeFromAddress(t *testing.T) {
	svc := setupService(t)

	input := validInput()
	input.Address = "123 Main St, Los Angeles, CA 90012, USA"

	rating, err := svc.Create(context.Background(), input, "")
	require.NoError(t, err)
	require.NotNil(t, rating.Zipcode)
	assert.Equal(t, "90012", *rating.Zipcode)
}

func TestCreate_DerivesReviewerEmoji(t *testing.T) {
	svc := setupService(t)

	password := "burrito"
	input := validInput()
	input.IdentityPassword = &password

	rating, err := svc.Create(context.Background(), input, "")
	require.NoError(t, err)
	require.NotNil(t, rating.ReviewerEmoji)
	assert.Equal(t, "🐼", *rating.ReviewerEmoji)

	// same passphrase, same emoji
	again, err := svc.Create(context.Background(), input, "")
	require.NoError(t, err)
	require.NotNil(t, again.ReviewerEmoji)
	assert.Equal(t, *rating.ReviewerEmoji, *again.ReviewerEmoji)
}

func TestCreate_ShortPassphraseStaysAnonymous(t *testing.T) {
	svc := setupService(t)

	password := "abc"
	input := validInput()
	input.IdentityPassword = &password

	rating, err := svc.Create(context.Background(), input, "")
	require.NoError(t, err)
	assert.Nil(t, rating.ReviewerEmoji)
	assert.Nil(t, rating.IdentityPassword)
}

func TestUpdate_NoFields(t *testing.T) {
	svc := setupService(t)
	rating, err := svc.Create(context.Background(), validInput(), "")
	require.NoError(t, err)

	_, err = svc.Update(rating.ID, map[string]any{"id": 42, "createdAt": "2020-01-01"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "No fields to update", validation.Message)
}

func TestUpdate_AllowedFieldsOnly(t *testing.T) {
	svc := setupService(t)
	rating, err := svc.Create(context.Background(), validInput(), "")
	require.NoError(t, err)

	updated, err := svc.Update(rating.ID, map[string]any{
		"restaurantName": "Taco Y",
		"id":             99999, // ignored
	})
	require.NoError(t, err)
	assert.Equal(t, rating.ID, updated.ID)
	assert.Equal(t, "Taco Y", updated.RestaurantName)
}

func TestConfirmBulk(t *testing.T) {
	svc := setupService(t)

	first, err := svc.Create(context.Background(), validInput(), "")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validInput(), "")
	require.NoError(t, err)

	count, err := svc.ConfirmBulk([]uint{first.ID, second.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = svc.ConfirmBulk(nil)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Invalid or missing rating IDs", validation.Message)
}
