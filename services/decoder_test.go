package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderDecode(t *testing.T) {
	df := table([][]string{
		{"id", "host_id", "price_dollar", "latitude", "longitude", "host_is_superhost", "host_response_rate",
			"amenities", "host_verifications", "description", "last_review", "review_scores_rating"},
		{"2818", "3159", "59", "52.36575", "4.94142", "true", "1",
			`["Wifi", "Kitchen", "Heating"]`, "['email', 'phone']", "Quiet room", "2022-02-14", "4.89"},
		{"20168", "59484", "236", "52.36509", "4.89354", "false", "",
			"[]", "None", "", "", ""},
		{"27886", "97647", "125", "", "4.90", "true", "0.5", "[]", "[]", "", "", ""},
	})

	listings, err := NewDecoder(quietLogger()).Decode(df)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	l := listings[0]
	assert.Equal(t, "2818", l.ID)
	assert.Equal(t, "3159", l.HostID)
	assert.Equal(t, 59.0, l.PriceDollar)
	assert.InDelta(t, 52.36575, l.Latitude, 1e-9)
	assert.True(t, l.IsSuperhost())
	assert.Equal(t, nf(1), l.HostResponseRate)
	assert.Equal(t, []string{"Wifi", "Kitchen", "Heating"}, l.Amenities)
	assert.Equal(t, []string{"email", "phone"}, l.HostVerifications)
	assert.Equal(t, "Quiet room", l.Description)
	assert.True(t, l.LastReview.Valid)
	assert.Equal(t, time.Date(2022, 2, 14, 0, 0, 0, 0, time.UTC), l.LastReview.Time)
	assert.Equal(t, nf(4.89), l.ReviewScoresRating)

	r := listings[1]
	assert.True(t, r.IsRegularHost())
	assert.False(t, r.HostResponseRate.Valid)
	assert.Empty(t, r.Amenities)
	assert.Empty(t, r.HostVerifications)
	assert.False(t, r.LastReview.Valid)
	assert.False(t, r.ReviewScoresRating.Valid)
	// absent columns decode as missing
	assert.False(t, r.HostIdentityVerified.Valid)
	assert.Equal(t, "", r.RoomType)
}

func TestDecoderRequiresColumns(t *testing.T) {
	df := table([][]string{{"id", "price_dollar", "latitude"}, {"1", "10", "52.3"}})

	_, err := NewDecoder(quietLogger()).Decode(df)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "longitude")
}

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json array", `["Wifi", "Long term stays allowed"]`, []string{"Wifi", "Long term stays allowed"}},
		{"python list", "['email', 'phone', 'work_email']", []string{"email", "phone", "work_email"}},
		{"escaped quote", `['it\'s', "b"]`, []string{"it's", "b"}},
		{"comma inside item", `['a, b', 'c']`, []string{"a, b", "c"}},
		{"empty list", "[]", nil},
		{"python none", "None", nil},
		{"blank", "  ", nil},
		{"not a list", "email, phone", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseListLiteral(tt.raw))
		})
	}
}
