package mock

import (
	"context"

	"github.com/fwojciec/roster"
)

var _ roster.ProfileService = (*ProfileService)(nil)

// ProfileService is a mock implementation of roster.ProfileService.
type ProfileService struct {
	ReplaceProfilesFn func(ctx context.Context, profiles []*roster.Profile) error
	AppendProfilesFn  func(ctx context.Context, profiles []*roster.Profile) error
	FindProfileByIDFn func(ctx context.Context, id string) (*roster.Profile, error)
	FindProfilesFn    func(ctx context.Context, filter roster.ProfileFilter) ([]*roster.Profile, error)
	SearchProfilesFn  func(ctx context.Context, query string, limit int) ([]*roster.Profile, error)
	DepartmentsFn     func(ctx context.Context) ([]roster.Department, error)
}

func (s *ProfileService) ReplaceProfiles(ctx context.Context, profiles []*roster.Profile) error {
	return s.ReplaceProfilesFn(ctx, profiles)
}

func (s *ProfileService) AppendProfiles(ctx context.Context, profiles []*roster.Profile) error {
	return s.AppendProfilesFn(ctx, profiles)
}

func (s *ProfileService) FindProfileByID(ctx context.Context, id string) (*roster.Profile, error) {
	return s.FindProfileByIDFn(ctx, id)
}

func (s *ProfileService) FindProfiles(ctx context.Context, filter roster.ProfileFilter) ([]*roster.Profile, error) {
	return s.FindProfilesFn(ctx, filter)
}

func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit int) ([]*roster.Profile, error) {
	return s.SearchProfilesFn(ctx, query, limit)
}

func (s *ProfileService) Departments(ctx context.Context) ([]roster.Department, error) {
	return s.DepartmentsFn(ctx)
}
