package goals

import (
	"context"
	"errors"
	"fmt"

	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
)

// Service persists the profile, the derived goals and the onboarding flag.
type Service struct {
	kv storage.Provider
}

func NewService(kv storage.Provider) *Service {
	return &Service{kv: kv}
}

// SaveProfile validates p, stores it with freshly calculated goals and marks
// onboarding complete.
func (s *Service) SaveProfile(ctx context.Context, p models.UserProfile) (models.NutritionGoals, error) {
	if err := Validate(p); err != nil {
		return models.NutritionGoals{}, err
	}
	g := Calculate(p)

	if err := storage.SetJSON(ctx, s.kv, constants.UserProfileKey, p); err != nil {
		return models.NutritionGoals{}, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := s.SetGoals(ctx, g); err != nil {
		return models.NutritionGoals{}, err
	}
	if err := s.kv.Set(ctx, constants.OnboardingCompleteKey, "true"); err != nil {
		return models.NutritionGoals{}, fmt.Errorf("failed to mark onboarding complete: %w", err)
	}
	return g, nil
}

// SetGoals overrides the stored targets without touching the profile.
func (s *Service) SetGoals(ctx context.Context, g models.NutritionGoals) error {
	g.NutritionValues = g.Sanitized()
	if err := storage.SetJSON(ctx, s.kv, constants.NutritionGoalsKey, g); err != nil {
		return fmt.Errorf("failed to save goals: %w", err)
	}
	return nil
}

func (s *Service) read(ctx context.Context, key string, v any) bool {
	if err := storage.GetJSON(ctx, s.kv, key, v); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read goal data", "key", key, "error", err)
		}
		return false
	}
	return true
}

// Goals returns the stored targets. ok is false when none are stored.
func (s *Service) Goals(ctx context.Context) (models.NutritionGoals, bool) {
	var g models.NutritionGoals
	if !s.read(ctx, constants.NutritionGoalsKey, &g) {
		return models.NutritionGoals{}, false
	}
	g.NutritionValues = g.Sanitized()
	return g, true
}

func (s *Service) Profile(ctx context.Context) (models.UserProfile, bool) {
	var p models.UserProfile
	if !s.read(ctx, constants.UserProfileKey, &p) {
		return models.UserProfile{}, false
	}
	return p, true
}

func (s *Service) OnboardingComplete(ctx context.Context) bool {
	v, err := s.kv.Get(ctx, constants.OnboardingCompleteKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read onboarding flag", "error", err)
		}
		return false
	}
	return v == "true"
}

// Reset forgets the profile and goals so onboarding runs again.
func (s *Service) Reset(ctx context.Context) error {
	for _, key := range []string{constants.OnboardingCompleteKey, constants.NutritionGoalsKey, constants.UserProfileKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to reset %s: %w", key, err)
		}
	}
	return nil
}
