package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext_RoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), &UserContext{UserID: "u-1", Roles: []string{"Manager"}})

	assert.Equal(t, "u-1", GetUserID(ctx))
	assert.True(t, HasRole(ctx, "Manager"))
	assert.False(t, HasRole(ctx, "Admin"))
}

func TestUserContext_Anonymous(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, GetUser(ctx))
	assert.Equal(t, "", GetUserID(ctx))
	assert.False(t, HasRole(ctx, "Admin"))
}
