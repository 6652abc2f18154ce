package dedupe

import (
	"circl/backend/internal/repository"
)

// MergeFields reconciles two contact records into the surviving one.
// Per-field policy: the primary's value wins when present, the secondary's
// fills gaps; tags are the set union; last-contacted is the more recent of
// the two. Pure function; identity (ID, UserID, CreatedAt) stays the
// primary's.
func MergeFields(primary, secondary *repository.Contact) repository.Contact {
	merged := *primary

	merged.Email = pickString(primary.Email, secondary.Email)
	merged.Phone = pickString(primary.Phone, secondary.Phone)
	merged.Company = pickString(primary.Company, secondary.Company)
	merged.JobTitle = pickString(primary.JobTitle, secondary.JobTitle)
	merged.Industry = pickString(primary.Industry, secondary.Industry)
	merged.LinkedIn = pickString(primary.LinkedIn, secondary.LinkedIn)
	merged.Twitter = pickString(primary.Twitter, secondary.Twitter)
	merged.Location = pickString(primary.Location, secondary.Location)
	merged.University = pickString(primary.University, secondary.University)
	merged.Notes = pickString(primary.Notes, secondary.Notes)
	merged.Tags = unionTags(primary.Tags, secondary.Tags)

	if primary.Circle == "" {
		merged.Circle = secondary.Circle
	}

	switch {
	case primary.LastContacted == nil:
		merged.LastContacted = secondary.LastContacted
	case secondary.LastContacted != nil && secondary.LastContacted.After(*primary.LastContacted):
		merged.LastContacted = secondary.LastContacted
	}

	return merged
}

func pickString(primary, secondary *string) *string {
	if primary != nil && *primary != "" {
		return primary
	}
	if secondary != nil && *secondary != "" {
		return secondary
	}
	return nil
}

// unionTags keeps the primary's tag order and appends the secondary's tags
// not already present.
func unionTags(primary, secondary []string) []string {
	if len(secondary) == 0 {
		return primary
	}

	seen := make(map[string]struct{}, len(primary))
	union := make([]string, 0, len(primary)+len(secondary))
	for _, tag := range primary {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		union = append(union, tag)
	}
	for _, tag := range secondary {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		union = append(union, tag)
	}
	return union
}
