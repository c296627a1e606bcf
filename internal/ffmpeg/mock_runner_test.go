package ffmpeg_test

import (
	"context"
	"time"

	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/stretchr/testify/mock"
)

type mockRunner struct {
	mock.Mock
	onRun func(args []string)
}

func (runner *mockRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*ffmpeg.CommandResult, error) {
	ret := runner.Called(timeout, name, args)
	if runner.onRun != nil {
		runner.onRun(args)
	}

	var result *ffmpeg.CommandResult
	if r := ret.Get(0); r != nil {
		result = r.(*ffmpeg.CommandResult)
	}

	return result, ret.Error(1)
}
