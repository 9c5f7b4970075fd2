package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRefResolveURL(t *testing.T) {
	hosted := FileRef{File: &HostedFile{URL: "https://files.example/a.pdf"}}
	url, ok := hosted.ResolveURL()
	assert.True(t, ok)
	assert.Equal(t, "https://files.example/a.pdf", url)

	external := FileRef{External: &ExternalFile{URL: "https://drive.example/b"}}
	url, ok = external.ResolveURL()
	assert.True(t, ok)
	assert.Equal(t, "https://drive.example/b", url)

	both := FileRef{
		File:     &HostedFile{URL: "https://files.example/a.pdf"},
		External: &ExternalFile{URL: "https://drive.example/b"},
	}
	url, _ = both.ResolveURL()
	assert.Equal(t, "https://files.example/a.pdf", url, "hosted wins over external")

	_, ok = FileRef{}.ResolveURL()
	assert.False(t, ok)
}

func TestPropertyValueDecodesWireShape(t *testing.T) {
	payload := `{
		"type": "select",
		"select": {"name": "Aktiv"}
	}`

	var prop PropertyValue
	require.NoError(t, json.Unmarshal([]byte(payload), &prop))
	assert.Equal(t, PropertySelect, prop.Type)
	require.NotNil(t, prop.Select)
	assert.Equal(t, "Aktiv", prop.Select.Name)
}

func TestTargetRecordSourceID(t *testing.T) {
	rec := TargetRecord{SourceIDField: "abc-123", "name": "Acme"}
	assert.Equal(t, "abc-123", rec.SourceID())

	assert.Empty(t, TargetRecord{}.SourceID())
	assert.Empty(t, TargetRecord{SourceIDField: 42}.SourceID(), "non-string IDs degrade to empty")
}
