package model

// PropertyType identifies the declared type of a source-store property.
type PropertyType string

const (
	PropertyTitle       PropertyType = "title"
	PropertyRichText    PropertyType = "rich_text"
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyNumber      PropertyType = "number"
	PropertyDate        PropertyType = "date"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertyPeople      PropertyType = "people"
	PropertyFiles       PropertyType = "files"
	PropertyURL         PropertyType = "url"
)

// PropertyValue is the typed value union the workspace API attaches to each
// record property. Exactly one of the payload fields is populated, selected
// by Type. Unknown or malformed payloads are tolerated; the extractor
// degrades them to the type's zero value.
type PropertyValue struct {
	Type        PropertyType   `json:"type" bson:"type"`
	Title       []TextRun      `json:"title,omitempty" bson:"title,omitempty"`
	RichText    []TextRun      `json:"rich_text,omitempty" bson:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty" bson:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty" bson:"multi_select,omitempty"`
	Number      *float64       `json:"number,omitempty" bson:"number,omitempty"`
	Date        *DateValue     `json:"date,omitempty" bson:"date,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty" bson:"checkbox,omitempty"`
	People      []PersonRef    `json:"people,omitempty" bson:"people,omitempty"`
	Files       []FileRef      `json:"files,omitempty" bson:"files,omitempty"`
	URL         string         `json:"url,omitempty" bson:"url,omitempty"`
}

// TextRun is one run of a title or rich-text property.
type TextRun struct {
	PlainText string `json:"plain_text" bson:"plain_text"`
}

// SelectOption is one option of a select or multi-select property.
type SelectOption struct {
	Name string `json:"name" bson:"name"`
}

// DateValue carries an ISO date (or datetime) range; Start is the value used
// during migration.
type DateValue struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end,omitempty" bson:"end,omitempty"`
}

// PersonRef references a workspace user linked to a people property.
type PersonRef struct {
	ID string `json:"id" bson:"id"`
}

// FileRef references an attachment. Hosted files and external links carry
// their URL in different sub-objects.
type FileRef struct {
	Name     string        `json:"name,omitempty" bson:"name,omitempty"`
	Type     string        `json:"type,omitempty" bson:"type,omitempty"`
	File     *HostedFile   `json:"file,omitempty" bson:"file,omitempty"`
	External *ExternalFile `json:"external,omitempty" bson:"external,omitempty"`
}

// HostedFile is a workspace-hosted attachment.
type HostedFile struct {
	URL string `json:"url" bson:"url"`
}

// ExternalFile is an externally linked attachment.
type ExternalFile struct {
	URL string `json:"url" bson:"url"`
}

// ResolveURL returns the attachment URL, preferring the hosted variant.
// The second return is false when neither variant carries a URL.
func (f FileRef) ResolveURL() (string, bool) {
	if f.File != nil && f.File.URL != "" {
		return f.File.URL, true
	}
	if f.External != nil && f.External.URL != "" {
		return f.External.URL, true
	}
	return "", false
}
