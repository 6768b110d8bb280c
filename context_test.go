package mqttacl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	p := NewPrincipal("user42", "ops")
	ctx = WithPrincipal(ctx, p)
	assert.Equal(t, p, PrincipalFromContext(ctx))
}

func TestClientIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ClientIDFromContext(ctx))

	ctx = WithClientID(ctx, "sensor-1")
	assert.Equal(t, "sensor-1", ClientIDFromContext(ctx))
}

func TestCheckerContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, CheckerFromContext(ctx))

	checker := NewChecker(NewEngine(NewMemoryStore(), Config{}, nil), nil, "")
	ctx = WithChecker(ctx, checker)
	assert.Same(t, checker, CheckerFromContext(ctx))
}
