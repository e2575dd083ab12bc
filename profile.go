package roster

import (
	"context"
	"strings"
	"time"
)

// Profile represents one person discovered on a team page.
//
// Optional string fields use the empty string for "checked, not found".
// There is no separate "not checked" state.
type Profile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Bio        string     `json:"bio"`
	PhotoURL   string     `json:"photoUrl"`
	Email      string     `json:"contact"`
	Phone      string     `json:"phone"`
	LinkedIn   string     `json:"linkedin"`
	Twitter    string     `json:"twitter"`
	Department Department `json:"department"`
	ProfileURL string     `json:"profileUrl"`

	// SourceURL is the team page the profile was found on.
	SourceURL string `json:"sourceUrl"`

	// Fingerprint is a content hash over the profile fields, assigned when
	// the profile is handed to the sink.
	Fingerprint string `json:"fingerprint"`

	MergeCount int  `json:"mergeCount"`
	Merged     bool `json:"merged"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the profile contains invalid fields.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Errorf(EINVALID, "profile name required")
	}
	if len(strings.Fields(p.Name)) < 2 {
		return Errorf(EINVALID, "profile name %q must have at least two words", p.Name)
	}
	return nil
}

// Clone returns a shallow copy of the profile.
func (p *Profile) Clone() *Profile {
	other := *p
	return &other
}

// Contact holds the contact details found for a person.
// Any field may be empty.
type Contact struct {
	Email    string
	Phone    string
	LinkedIn string
	Twitter  string
}

// Apply copies non-empty contact fields into the profile where the profile
// has none.
func (c Contact) Apply(p *Profile) {
	if p.Email == "" {
		p.Email = c.Email
	}
	if p.Phone == "" {
		p.Phone = c.Phone
	}
	if p.LinkedIn == "" {
		p.LinkedIn = c.LinkedIn
	}
	if p.Twitter == "" {
		p.Twitter = c.Twitter
	}
}

// ProfileText returns the text used to embed a profile for semantic search.
// Empty fields are omitted.
func ProfileText(p *Profile) string {
	parts := []string{"Name: " + p.Name}
	if p.Role != "" {
		parts = append(parts, "Role: "+p.Role)
	}
	if p.Department != "" {
		parts = append(parts, "Department: "+string(p.Department))
	}
	if p.Bio != "" {
		parts = append(parts, "Biography: "+p.Bio)
	}
	if p.Email != "" {
		parts = append(parts, "Email: "+p.Email)
	}
	if p.LinkedIn != "" {
		parts = append(parts, "LinkedIn: "+p.LinkedIn)
	}
	return strings.Join(parts, " | ")
}

// ProfileSink receives the final, deduplicated profile batch of a scrape.
// Each call is atomic: either all profiles are stored or none are.
type ProfileSink interface {
	// ReplaceProfiles removes all stored profiles and stores the given ones.
	ReplaceProfiles(ctx context.Context, profiles []*Profile) error

	// AppendProfiles stores the given profiles alongside existing ones.
	AppendProfiles(ctx context.Context, profiles []*Profile) error
}

// ProfileService represents a service for storing and querying profiles.
type ProfileService interface {
	ProfileSink

	// FindProfileByID retrieves a profile by ID.
	// Returns ENOTFOUND if the profile does not exist.
	FindProfileByID(ctx context.Context, id string) (*Profile, error)

	// FindProfiles retrieves profiles matching the filter in stored order.
	FindProfiles(ctx context.Context, filter ProfileFilter) ([]*Profile, error)

	// SearchProfiles runs a full-text query over names, roles and bios,
	// best matches first.
	SearchProfiles(ctx context.Context, query string, limit int) ([]*Profile, error)

	// Departments returns the distinct departments of stored profiles.
	Departments(ctx context.Context) ([]Department, error)
}

// ProfileFilter represents a filter for FindProfiles.
type ProfileFilter struct {
	ID         *string     `json:"id"`
	Name       *string     `json:"name"`
	Department *Department `json:"department"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
