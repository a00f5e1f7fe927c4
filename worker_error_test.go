package iterthreads

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerError(t *testing.T) {
	cause := errors.New("boom")
	err := error(newWorkerError(cause, "ingest", 3))

	require.ErrorIs(t, err, ErrWorkerFailed)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrTimeout)
	require.Equal(t, "iterthreads: worker failed: boom", err.Error())
	require.Equal(t, cause, Cause(err))
	require.Equal(t, cause, Cause(fmt.Errorf("wrapped: %w", err)))
	require.Nil(t, Cause(cause))

	var we *WorkerError
	require.ErrorAs(t, err, &we)
	require.Equal(t, 3, we.Produced())
	require.Equal(t, "ingest", we.Name())
}

func TestWorkerError_Format(t *testing.T) {
	err := newWorkerError(errors.New("boom"), "ingest", 2)

	require.Equal(t, "iterthreads: worker failed: boom", fmt.Sprintf("%v", err))
	require.Equal(t, "iterthreads: worker failed: boom", fmt.Sprintf("%s", err))
	require.Equal(t, `"iterthreads: worker failed: boom"`, fmt.Sprintf("%q", err))
	require.Equal(t, `worker(name="ingest",produced=2): boom`, fmt.Sprintf("%+v", err))
}
