package internal

import "time"

type runtimeOptions struct {
	host       Host
	logger     *Logger
	ownerCheck bool
}

// Option configures a Runtime or a Scheduler.
type Option interface {
	applyRuntime(*runtimeOptions) error
}

type optionImpl struct {
	applyRuntimeFunc func(*runtimeOptions) error
}

func (o *optionImpl) applyRuntime(opts *runtimeOptions) error {
	return o.applyRuntimeFunc(opts)
}

// WithHost sets the host environment. Without it a headless host is used.
func WithHost(host Host) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		opts.host = host
		return nil
	}}
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *Logger) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithOwnerCheck confines the runtime to the first goroutine that uses it.
func WithOwnerCheck(enabled bool) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		opts.ownerCheck = enabled
		return nil
	}}
}

func resolveOptions(opts []Option) (*runtimeOptions, error) {
	cfg := &runtimeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type scheduleOptions struct {
	delay      time.Duration
	timeout    time.Duration
	hasTimeout bool
}

// ScheduleOption configures a single Schedule call.
type ScheduleOption func(*scheduleOptions)

// WithDelay makes the task a timer that becomes ready after d. Non-positive delays are ignored.
func WithDelay(d time.Duration) ScheduleOption {
	return func(o *scheduleOptions) {
		o.delay = d
	}
}

// WithTimeout overrides the priority derived timeout of the task.
func WithTimeout(d time.Duration) ScheduleOption {
	return func(o *scheduleOptions) {
		o.timeout = d
		o.hasTimeout = true
	}
}
