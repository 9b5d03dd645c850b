package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func TestStart_RejectsDoubleStart(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	t.Cleanup(svc.Stop)

	require.NoError(t, svc.Start("0 0 */6 * * *"))
	assert.Error(t, svc.Start("0 0 */6 * * *"))
}

func TestStart_RejectsInvalidExpression(t *testing.T) {
	svc := NewService(nil, createTestLogger())

	err := svc.Start("not a cron line")
	assert.Error(t, err)
}

func TestStart_EmptyExpressionUsesDefault(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	t.Cleanup(svc.Stop)

	assert.NoError(t, svc.Start(""))
}

func TestStop_IsIdempotent(t *testing.T) {
	svc := NewService(nil, createTestLogger())

	// Stopping a never-started scheduler is a no-op
	svc.Stop()

	require.NoError(t, svc.Start("0 0 */6 * * *"))
	svc.Stop()
	svc.Stop()
}
