package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// profileTypes are collected whenever profiling is on
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiling pushes continuous profiles to Pyroscope. The zero value is a
// stopped profiler.
type Profiling struct {
	p    *pyroscope.Profiler
	log  *zap.Logger
	once sync.Once
}

func startProfiling(server, service string, log *zap.Logger) (*Profiling, error) {
	if server == "" {
		return nil, errors.New("profiling: server address is required")
	}
	if service == "" {
		return nil, errors.New("profiling: service name is required")
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: service,
		ServerAddress:   server,
		Logger:          pyroscopeLog{log.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	log.Info("Continuous profiling started", zap.String("server", server))
	return &Profiling{p: p, log: log}, nil
}

func (p *Profiling) Enabled() bool {
	return p != nil && p.p != nil
}

// Stop flushes the last profiles. Only the first call does anything.
func (p *Profiling) Stop() error {
	if !p.Enabled() {
		return nil
	}
	var err error
	p.once.Do(func() {
		if err = p.p.Stop(); err != nil {
			err = fmt.Errorf("stop pyroscope: %w", err)
		}
	})
	return err
}

// pyroscopeLog adapts pyroscope's logger interface to zap
type pyroscopeLog struct {
	*zap.SugaredLogger
}
