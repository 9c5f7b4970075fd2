package usecase

import (
	"workspace-migrator/internal/migration/domain/model"
)

// ExtractProperty normalizes a typed source property into the scalar or
// array value the target store expects. Absent or malformed input degrades
// to the type's zero value; this function never fails a record.
//
// Zero values per type: title/rich_text "", select nil, multi_select empty
// list, number 0, date nil, checkbox false, people nil, files empty list,
// url nil.
func ExtractProperty(p model.PropertyValue) interface{} {
	switch p.Type {
	case model.PropertyTitle:
		return firstPlainText(p.Title)
	case model.PropertyRichText:
		return firstPlainText(p.RichText)
	case model.PropertySelect:
		if p.Select != nil && p.Select.Name != "" {
			return p.Select.Name
		}
		return nil
	case model.PropertyMultiSelect:
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			if opt.Name != "" {
				names = append(names, opt.Name)
			}
		}
		return names
	case model.PropertyNumber:
		if p.Number != nil {
			return *p.Number
		}
		return float64(0)
	case model.PropertyDate:
		if p.Date != nil && p.Date.Start != "" {
			return p.Date.Start
		}
		return nil
	case model.PropertyCheckbox:
		if p.Checkbox != nil {
			return *p.Checkbox
		}
		return false
	case model.PropertyPeople:
		if len(p.People) > 0 && p.People[0].ID != "" {
			return p.People[0].ID
		}
		return nil
	case model.PropertyFiles:
		urls := make([]string, 0, len(p.Files))
		for _, f := range p.Files {
			if url, ok := f.ResolveURL(); ok {
				urls = append(urls, url)
			}
		}
		return urls
	case model.PropertyURL:
		if p.URL != "" {
			return p.URL
		}
		return nil
	default:
		return nil
	}
}

func firstPlainText(runs []model.TextRun) string {
	if len(runs) > 0 {
		return runs[0].PlainText
	}
	return ""
}

// extractString extracts the named property as a string, degrading to ""
// when the property is absent or not string-shaped.
func extractString(raw model.RawRecord, property string) string {
	p, ok := raw.Property(property)
	if !ok {
		return ""
	}
	if s, ok := ExtractProperty(p).(string); ok {
		return s
	}
	return ""
}

// extractNumber extracts the named property as a float64, degrading to 0.
func extractNumber(raw model.RawRecord, property string) float64 {
	p, ok := raw.Property(property)
	if !ok {
		return 0
	}
	if n, ok := ExtractProperty(p).(float64); ok {
		return n
	}
	return 0
}
