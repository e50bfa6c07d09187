package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		from, size int
		want       Page
	}{
		{"first page", 0, 10, Page{Offset: 0, Limit: 10}},
		{"from inside second page", 13, 10, Page{Offset: 10, Limit: 10}},
		{"from on boundary", 20, 5, Page{Offset: 20, Limit: 5}},
		{"default size", 0, 0, Page{Offset: 0, Limit: DefaultPageSize}},
		{"negative from", -3, 4, Page{Offset: 0, Limit: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.from, tt.size))
		})
	}
}

func TestParseFacet(t *testing.T) {
	for _, name := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		f, ok := ParseFacet(name)
		assert.True(t, ok, name)
		assert.Equal(t, Facet(name), f)
	}

	_, ok := ParseFacet("all")
	assert.False(t, ok)
	_, ok = ParseFacet("UNSUPPORTED_STATUS")
	assert.False(t, ok)
}

func TestPatchApply(t *testing.T) {
	name := "New"
	available := false

	item := Item{Name: "Old", Description: "Desc", Available: true}
	ItemPatch{Name: &name, Available: &available}.Apply(&item)
	assert.Equal(t, "New", item.Name)
	assert.Equal(t, "Desc", item.Description)
	assert.False(t, item.Available)

	email := "new@example.com"
	user := User{Name: "Alice", Email: "old@example.com"}
	UserPatch{Email: &email}.Apply(&user)
	assert.Equal(t, User{Name: "Alice", Email: "new@example.com"}, user)
}

func TestBookingDraftUnmarshal(t *testing.T) {
	want := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
	}{
		{"rfc3339 utc", "2030-01-01T10:00:00Z"},
		{"rfc3339 with offset", "2030-01-01T13:00:00+03:00"},
		{"without zone", "2030-01-01T10:00:00"},
		{"without zone with fraction", "2030-01-01T10:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d BookingDraft
			body := `{"itemId":7,"start":"` + tt.start + `","end":"2030-01-02T10:00:00"}`
			require.NoError(t, json.Unmarshal([]byte(body), &d))
			assert.Equal(t, int64(7), d.ItemID)
			require.NotNil(t, d.Start)
			require.NotNil(t, d.End)
			assert.True(t, want.Equal(*d.Start), d.Start.String())
			assert.True(t, want.Add(24*time.Hour).Equal(*d.End))
		})
	}

	var d BookingDraft
	require.NoError(t, json.Unmarshal([]byte(`{"itemId":7,"start":null}`), &d))
	assert.Nil(t, d.Start)
	assert.Nil(t, d.End)

	assert.Error(t, json.Unmarshal([]byte(`{"itemId":7,"start":"tomorrow"}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"itemId":7,"start":1893492000}`), &d))
}
