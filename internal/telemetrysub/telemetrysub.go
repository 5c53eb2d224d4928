// Package telemetrysub implements the Telemetry Subsystem (component I):
// it samples the shared vehicle state at its scheduler period, formats
// one ASCII record per spec.md §6's ABNF grammar, and appends it to the
// Telemetry Device (component C).
//
// Grounded on the sample-format-write loop shape of
// CarlosSprekelsen-radioContainer/rcc's internal/telemetry producers,
// adapted to the fixed record grammar and 10 Hz update rate.
package telemetrysub

import (
	"fmt"
	"time"

	"github.com/launchsim/core/internal/eventsink"
	"github.com/launchsim/core/internal/telemetrydevice"
	"github.com/launchsim/core/internal/vehicle"
)

// Producer samples vehicle.State once per Tick and writes a formatted
// record to the Telemetry Device.
type Producer struct {
	state  *vehicle.State
	device *telemetrydevice.Device
	sink   *eventsink.Sink

	buf []byte
}

// New creates a telemetry Producer.
func New(state *vehicle.State, device *telemetrydevice.Device, sink *eventsink.Sink) *Producer {
	return &Producer{state: state, device: device, sink: sink, buf: make([]byte, 0, 128)}
}

// Tick is the Body the Scheduler invokes once per Telemetry Subsystem
// period (10 Hz default). It never blocks the scheduler beyond one tick:
// AppendRecord only contends the Telemetry Device's single mutex, which
// readers hold only while copying bytes out (a blocked reader waits on a
// condition variable with the mutex released).
func (p *Producer) Tick(dt time.Duration) error {
	now := time.Now()
	goFlag := 0
	if p.state.MissionGo() {
		goFlag = 1
	}

	p.buf = formatRecord(p.buf[:0], now, p.state.AltitudeM(), p.state.VelocityMS(), p.state.Throttle(), goFlag)

	if err := p.device.AppendRecord(p.buf); err != nil {
		if p.sink != nil {
			p.sink.Emit(eventsink.Warn, "TLM", "telemetry write failed: "+err.Error())
		}
		return nil // a dropped sample is not a subsystem failure
	}
	return nil
}

// formatRecord appends the ABNF record from spec.md §6 to dst and returns
// the extended slice: "<sec>.<millis>,alt=<f>,vel=<f>,thr=<i>,go=<0|1>\n".
func formatRecord(dst []byte, ts time.Time, altitudeM, velocityMS float64, throttle, goFlag int) []byte {
	sec := ts.Unix()
	millis := ts.Nanosecond() / 1_000_000
	line := fmt.Sprintf("%d.%03d,alt=%.2f,vel=%.2f,thr=%d,go=%d\n", sec, millis, altitudeM, velocityMS, throttle, goFlag)
	return append(dst, line...)
}
