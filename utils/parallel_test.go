package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.viam.com/test"
	gutils "go.viam.com/utils"
)

func TestRunInParallel(t *testing.T) {
	oldFactor := ParallelFactor
	ParallelFactor = 4
	defer func() { ParallelFactor = oldFactor }()

	wait100ms := func(ctx context.Context) error {
		gutils.SelectContextOrWait(ctx, 100*time.Millisecond)
		return ctx.Err()
	}

	elapsed, err := RunInParallel(context.Background(), []SimpleFunc{wait100ms, wait100ms})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, elapsed, test.ShouldBeLessThan, 190*time.Millisecond)
	test.That(t, elapsed, test.ShouldBeGreaterThan, 90*time.Millisecond)

	errFunc := func(ctx context.Context) error {
		return errors.New("bad")
	}

	_, err = RunInParallel(context.Background(), []SimpleFunc{wait100ms, wait100ms, errFunc})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad")

	panicFunc := func(ctx context.Context) error {
		panic(1)
	}

	_, err = RunInParallel(context.Background(), []SimpleFunc{panicFunc})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "panic")
}

func TestRunInParallelBounded(t *testing.T) {
	oldFactor := ParallelFactor
	ParallelFactor = 2
	defer func() { ParallelFactor = oldFactor }()

	var running, peak int32
	work := func(ctx context.Context) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	}
	fs := make([]SimpleFunc, 8)
	for i := range fs {
		fs[i] = work
	}
	_, err := RunInParallel(context.Background(), fs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atomic.LoadInt32(&peak), test.ShouldBeLessThanOrEqualTo, 2)
}

func TestRunInParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := RunInParallel(ctx, []SimpleFunc{func(ctx context.Context) error {
		called = true
		return nil
	}})
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, called, test.ShouldBeFalse)
}

func TestFloatAlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1+1e-9, 1e-8), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-8), test.ShouldBeFalse)
	test.That(t, Float32AlmostEqual(0.2, 0.2, 1e-5), test.ShouldBeTrue)
	test.That(t, Float32AlmostEqual(0.2, 0.19, 1e-5), test.ShouldBeFalse)
	test.That(t, Clamp(5, 0, 1), test.ShouldEqual, 1)
	test.That(t, Clamp(-5, 0, 1), test.ShouldEqual, 0)
}
