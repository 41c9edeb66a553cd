package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticValidator(t *testing.T) {
	v, err := NewStaticValidator("s3cret")
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, v.Validate(ctx, "s3cret"))
	assert.ErrorIs(t, v.Validate(ctx, "s3cre"), ErrInvalidToken)
	assert.ErrorIs(t, v.Validate(ctx, ""), ErrInvalidToken)

	_, err = NewStaticValidator("")
	assert.Error(t, err)
}

func TestNoopValidator(t *testing.T) {
	assert.NoError(t, NoopValidator{}.Validate(context.Background(), ""))
}

func TestFromConfig(t *testing.T) {
	assert.IsType(t, NoopValidator{}, FromConfig(""))

	v := FromConfig("abc")
	require.IsType(t, &StaticValidator{}, v)
	assert.NoError(t, v.Validate(context.Background(), "abc"))
	assert.ErrorIs(t, v.Validate(context.Background(), "abd"), ErrInvalidToken)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{"bearer header", "/ws", "Bearer abc", "abc"},
		{"query parameter", "/ws?token=xyz", "", "xyz"},
		{"header wins", "/ws?token=xyz", "Bearer abc", "abc"},
		{"other scheme falls back to query", "/ws?token=xyz", "Basic Zm9v", "xyz"},
		{"none", "/ws", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, TokenFromRequest(r))
		})
	}
}
