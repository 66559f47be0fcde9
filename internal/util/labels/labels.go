package labels

import "maps"

// Standard tag keys for stacks.
const (
	// KeyOwnerEmail identifies who launched the lab
	KeyOwnerEmail = "ownerEmail"

	// KeyTemplateName is the display name of the template the lab runs
	KeyTemplateName = "templateName"

	// KeyRun identifies the launch run, matching the run field in logs
	KeyRun = "demolabRun"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "managedBy"
)

// ManagedByDemolab is the KeyManagedBy value of every stack.
const ManagedByDemolab = "demolab"

// MaxValueLength is the longest tag value accepted by both AWS and Azure.
const MaxValueLength = 256

// TagBuilder provides a fluent interface for building stack tags.
type TagBuilder struct {
	tags map[string]string
}

// NewTagBuilder creates a tag builder with the run ID pre-set.
func NewTagBuilder(runID string) *TagBuilder {
	tb := &TagBuilder{tags: map[string]string{KeyManagedBy: ManagedByDemolab}}
	return tb.set(KeyRun, runID)
}

// WithOwner adds the owner email tag if email is non-empty.
func (tb *TagBuilder) WithOwner(email string) *TagBuilder {
	return tb.set(KeyOwnerEmail, email)
}

// WithTemplate adds the template name tag if name is non-empty.
func (tb *TagBuilder) WithTemplate(name string) *TagBuilder {
	return tb.set(KeyTemplateName, name)
}

// Merge adds all non-empty tags from the provided map.
func (tb *TagBuilder) Merge(extra map[string]string) *TagBuilder {
	for k, v := range extra {
		tb.set(k, v)
	}
	return tb
}

// Build returns a copy of the tags map.
func (tb *TagBuilder) Build() map[string]string {
	return maps.Clone(tb.tags)
}

func (tb *TagBuilder) set(key, value string) *TagBuilder {
	if value == "" {
		return tb
	}
	if len(value) > MaxValueLength {
		value = value[:MaxValueLength]
	}
	tb.tags[key] = value
	return tb
}
