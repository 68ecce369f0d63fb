package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

type SafeGoConfig struct {
	Name        string
	PanicToExit bool
}

type SafeGoOption func(opt *SafeGoConfig)

func PanicToExit() SafeGoOption {
	return func(opt *SafeGoConfig) {
		opt.PanicToExit = true
	}
}

func WithName(name string) SafeGoOption {
	return func(opt *SafeGoConfig) {
		opt.Name = name
	}
}

func Exit(code int) {
	os.Exit(code)
}

// SafeGo runs f on its own goroutine and keeps a panic from taking the
// process down unless PanicToExit is requested.
func SafeGo(f func(), opts ...SafeGoOption) {
	config := &SafeGoConfig{}
	for _, opt := range opts {
		opt(config)
	}
	go func() {
		defer func() {
			recovered := recover()
			if recovered != nil {
				level := logrus.ErrorLevel
				if config.PanicToExit {
					level = logrus.FatalLevel
				}
				Logger().WithField("goroutine", config.Name).Log(level, recovered)
			}
		}()
		f()
	}()
}
