package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestErrorMessage(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.New(errors.ErrInvalidThresholds)
	assert.Equal(t, "Reset threshold must be above trigger threshold", err.Error())

	wrapped := errFactory.Wrap(errors.ErrOpenBus, stderrors.New("no such device"))
	assert.Equal(t, "Failed to open I2C bus: no such device", wrapped.Error())

	custom := errFactory.WithMessage(errors.ErrorCode("custom_code"), "custom message")
	assert.Equal(t, "custom message", custom.Error())

	withData := errFactory.WithData(errors.ErrInvalidAddress, 0x200)
	assert.Equal(t, "Invalid I2C address: 512", withData.Error())
	assert.Equal(t, 0x200, withData.GetData())
}

func TestHasCode(t *testing.T) {
	errFactory := errors.New()
	inner := errFactory.New(errors.ErrTimeout)
	outer := fmt.Errorf("cycle: %w", errFactory.Wrap(errors.ErrMeasure, inner))

	assert.True(t, errors.HasCode(outer, errors.ErrMeasure))
	assert.True(t, errors.HasCode(outer, errors.ErrTimeout))
	assert.False(t, errors.HasCode(outer, errors.ErrOpenBus))
	assert.Equal(t, errors.ErrMeasure, errors.CodeOf(outer))
	assert.Equal(t, errors.ErrInternal, errors.CodeOf(stderrors.New("plain")))
}

func TestHasCodeCombined(t *testing.T) {
	errFactory := errors.New()
	combined := multierr.Combine(
		errFactory.New(errors.ErrInitApp),
		errFactory.New(errors.ErrTimeout),
	)

	assert.True(t, errors.HasCode(combined, errors.ErrInitApp))
	assert.True(t, errors.HasCode(combined, errors.ErrTimeout))
}
