package jobctx

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_BindsDistinctJobIDs(t *testing.T) {
	base := zerolog.Nop()

	ctxA := New(context.Background(), base)
	ctxB := New(context.Background(), base)

	assert.NotEmpty(t, JobID(ctxA))
	assert.NotEmpty(t, JobID(ctxB))
	assert.NotEqual(t, JobID(ctxA), JobID(ctxB))
}

func TestJobID_EmptyWithoutContext(t *testing.T) {
	assert.Equal(t, "", JobID(context.Background()))
}

func TestLogger_FallsBackToNopWithoutContext(t *testing.T) {
	logger := Logger(context.Background())
	assert.NotNil(t, logger)
}

func TestLogger_ReturnsBoundLogger(t *testing.T) {
	ctx := New(context.Background(), zerolog.Nop())
	logger := Logger(ctx)
	assert.NotNil(t, logger)
}
