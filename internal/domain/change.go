package domain

import "fmt"

// PageField names a page attribute the fix orchestrator may mutate.
type PageField string

const (
	FieldTitle   PageField = "title"
	FieldExcerpt PageField = "excerpt"
	FieldContent PageField = "content"
)

// fieldMapping is the fixed lookup table from issue field descriptors to page
// attributes. Any field missing here produces no page mutation.
var fieldMapping = map[string]PageField{
	"title":            FieldTitle,
	"meta.description": FieldExcerpt,
	"meta_description": FieldExcerpt,
	"excerpt":          FieldExcerpt,
	"content":          FieldContent,
	"body":             FieldContent,
}

// MapContentField resolves an issue's field descriptor to a page attribute.
func MapContentField(name string) (PageField, bool) {
	f, ok := fieldMapping[name]
	return f, ok
}

// Change is one confirmed mutation ready for the fix orchestrator.
type Change struct {
	IssueID  string
	PageID   string
	PageType PageType
	Field    string
	Selector string
	OldValue string
	NewValue string
	Category string
	Title    string
}

// DiffDescription renders the human-readable summary stored with every
// change-history entry.
func DiffDescription(field, oldValue, newValue string) string {
	if oldValue == "" {
		oldValue = "empty"
	}
	return fmt.Sprintf("Changed %s from %q to %q", field, oldValue, newValue)
}

// RevertDescription renders the summary for an undo entry.
func RevertDescription(field, fromValue, toValue string) string {
	if toValue == "" {
		toValue = "empty"
	}
	return fmt.Sprintf("Reverted %s from %q to %q", field, fromValue, toValue)
}
