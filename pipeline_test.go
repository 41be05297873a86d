package rctobj

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitForPipeline(t *testing.T) {
	failed := make(chan error, 1)
	failed <- errors.New("walk failed")
	close(failed)

	var finished int32
	slow := make(chan error, 1)
	go func() {
		defer close(slow)
		time.Sleep(50 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
	}()

	err := waitForPipeline(failed, slow)
	assert.EqualError(t, err, "walk failed")
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished), "returned before every stage finished")
}

func TestWaitForPipelineFirstError(t *testing.T) {
	errc := make(chan error, 3)
	errc <- nil
	errc <- errors.New("first")
	errc <- errors.New("second")
	close(errc)

	assert.EqualError(t, waitForPipeline(errc), "first")
	assert.NoError(t, waitForPipeline())
}

func TestScanMissingDirectory(t *testing.T) {
	r, _ := newRepository(t)
	assert.Error(t, r.Scan(filepath.Join(t.TempDir(), "missing")))
}
