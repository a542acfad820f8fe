package battle

import (
	"context"
	"errors"
	"strings"
	"sync"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"
)

var ErrInvalidRequest = errors.New("invalid battle request")

// Session shares one Model between callers that may run concurrently, such as
// HTTP handlers. Meals are looked up through Meals before being prepped.
type Session struct {
	Meals ports.MealReader

	mu    sync.Mutex
	model *Model
}

func NewSession(meals ports.MealReader, model *Model) *Session {
	return &Session{Meals: meals, model: model}
}

func (s *Session) PrepByName(ctx context.Context, name string) (meal.Meal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return meal.Meal{}, ErrInvalidRequest
	}
	m, err := s.Meals.GetMealByName(ctx, name)
	if err != nil {
		return meal.Meal{}, err
	}
	if err := s.prep(m); err != nil {
		return meal.Meal{}, err
	}
	return m, nil
}

func (s *Session) PrepByID(ctx context.Context, id int64) (meal.Meal, error) {
	if id <= 0 {
		return meal.Meal{}, ErrInvalidRequest
	}
	m, err := s.Meals.GetMealByID(ctx, id)
	if err != nil {
		return meal.Meal{}, err
	}
	if err := s.prep(m); err != nil {
		return meal.Meal{}, err
	}
	return m, nil
}

func (s *Session) prep(m meal.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.PrepCombatant(m)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.ClearCombatants()
}

func (s *Session) Combatants() []meal.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Combatants()
}

func (s *Session) Battle(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Battle(ctx)
}
