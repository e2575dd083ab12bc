package dedupe

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/roster"
)

type fieldKind int

const (
	plainField fieldKind = iota
	textField            // longer value wins under prefer_complete
	urlField             // https wins over http under prefer_complete
)

// field addresses one mergeable string field of a profile.
type field struct {
	kind fieldKind
	ptr  func(*roster.Profile) *string
}

var fields = []field{
	{plainField, func(p *roster.Profile) *string { return &p.ID }},
	{plainField, func(p *roster.Profile) *string { return &p.Name }},
	{textField, func(p *roster.Profile) *string { return &p.Role }},
	{textField, func(p *roster.Profile) *string { return &p.Bio }},
	{urlField, func(p *roster.Profile) *string { return &p.PhotoURL }},
	{plainField, func(p *roster.Profile) *string { return &p.Email }},
	{plainField, func(p *roster.Profile) *string { return &p.Phone }},
	{urlField, func(p *roster.Profile) *string { return &p.LinkedIn }},
	{urlField, func(p *roster.Profile) *string { return &p.Twitter }},
	{urlField, func(p *roster.Profile) *string { return &p.ProfileURL }},
	{urlField, func(p *roster.Profile) *string { return &p.SourceURL }},
}

// merge combines the accepted profile older with the incoming profile newer
// under the configured strategy. Neither argument is modified.
func (d *Deduplicator) merge(older, newer *roster.Profile) *roster.Profile {
	var merged *roster.Profile
	switch d.Strategy {
	case roster.MergePreferRecent:
		merged = newer.Clone()
		fillEmpty(merged, older)
	case roster.MergeManual:
		merged = older.Clone()
		fillEmpty(merged, newer)
	default:
		merged = older.Clone()
		preferComplete(merged, newer)
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = older.CreatedAt
	}
	merged.Merged = true
	merged.MergeCount = older.MergeCount + newer.MergeCount + 1
	merged.Department = roster.ClassifyDepartment(merged.Role)
	merged.Fingerprint = ""
	return merged
}

// fillEmpty copies fields of src into dst where dst has none.
func fillEmpty(dst, src *roster.Profile) {
	for _, f := range fields {
		if d := f.ptr(dst); *d == "" {
			*d = *f.ptr(src)
		}
	}
}

func preferComplete(dst, src *roster.Profile) {
	for _, f := range fields {
		d, v := f.ptr(dst), *f.ptr(src)
		switch {
		case v == "":
		case *d == "":
			*d = v
		case f.kind == textField && utf8.RuneCountInString(v) > utf8.RuneCountInString(*d):
			*d = v
		case f.kind == urlField && strings.HasPrefix(v, "https://") && strings.HasPrefix(*d, "http://"):
			*d = v
		}
	}
}
