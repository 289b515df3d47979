package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestFormatParseTime_RoundTrip(t *testing.T) {
	in := time.Date(2025, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("X", 3600))
	s := FormatTime(in)
	assert.Equal(t, "2025-03-04T04:06:07.891Z", s)

	out, err := ParseTime(s)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestParseTime_AcceptsRFC3339(t *testing.T) {
	out, err := ParseTime("2025-03-04T04:06:07Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 4, 6, 7, 0, time.UTC), out)

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestParseTime_AcceptsSQLiteDatetime(t *testing.T) {
	out, err := ParseTime("2026-10-18 23:57:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 23, 57, 45, 0, time.UTC), out)
	assert.Equal(t, "2026-10-18T23:57:45.000Z", FormatTime(out))
}

func TestFormattedTimesSortLexicographically(t *testing.T) {
	early := FormatTime(time.Date(2025, 1, 9, 23, 59, 59, 999_000_000, time.UTC))
	late := FormatTime(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.Less(t, early, late)
}

func TestNullHelpers(t *testing.T) {
	p, err := ParseNullTime(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, p)

	assert.False(t, NullTime(nil).Valid)
	now := time.Now()
	ns := NullTime(&now)
	require.True(t, ns.Valid)
	p, err = ParseNullTime(ns)
	require.NoError(t, err)
	assert.WithinDuration(t, now, *p, time.Millisecond)

	assert.Nil(t, NullString(sql.NullString{}))
	assert.Equal(t, "x", *NullString(sql.NullString{String: "x", Valid: true}))
}

func TestRoleAndStatusValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())

	for _, s := range []MessageStatus{StatusSending, StatusStreaming, StatusComplete, StatusError} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, MessageStatus("queued").Valid())
}

func TestSources_EncodeDecode(t *testing.T) {
	col, err := EncodeSources(nil)
	require.NoError(t, err)
	assert.Nil(t, col)

	page := 4
	score := 0.87
	src := []Source{{
		CitationID:     "c1",
		SourceType:     "document",
		Title:          "Handbook",
		Excerpt:        "...",
		PageNumber:     &page,
		RelevanceScore: &score,
	}}
	col, err = EncodeSources(src)
	require.NoError(t, err)
	require.NotNil(t, col)
	assert.Contains(t, *col, `"citation_id":"c1"`)
	assert.NotContains(t, *col, "document_id")

	got, err := DecodeSources(col)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	bad := "{not json"
	_, err = DecodeSources(&bad)
	assert.Error(t, err)
}
