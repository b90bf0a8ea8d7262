package measurement_test

import (
	"context"

	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/sensor"
)

type fakeAnalog struct {
	raw   int
	err   error
	calls int
}

func (f *fakeAnalog) Name() string { return "analog" }

func (f *fakeAnalog) ReadRaw(context.Context) (int, error) {
	f.calls++
	return f.raw, f.err
}

type fakeLight struct {
	lux      float64
	beginErr error
	readErr  error
	haltErr  error
	begun    bool
	reads    int
	halted   bool
}

func (f *fakeLight) Name() string { return "light" }

func (f *fakeLight) Begin(context.Context) error {
	f.begun = f.beginErr == nil
	return f.beginErr
}

func (f *fakeLight) Read(context.Context) (float64, error) {
	f.reads++
	return f.lux, f.readErr
}

func (f *fakeLight) Halt() error {
	f.halted = true
	return f.haltErr
}

type fakeBarometer struct {
	reading  sensor.Barometric
	beginErr error
	readErr  error
	haltErr  error
	reads    int
}

func (f *fakeBarometer) Name() string { return "barometer" }

func (f *fakeBarometer) Begin(context.Context) error { return f.beginErr }

func (f *fakeBarometer) Read(context.Context) (sensor.Barometric, error) {
	f.reads++
	return f.reading, f.readErr
}

func (f *fakeBarometer) Halt() error { return f.haltErr }

func failure(code errors.ErrorCode) error {
	return errors.New().New(code)
}
