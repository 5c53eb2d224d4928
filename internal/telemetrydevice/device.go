// Package telemetrydevice implements the Telemetry Device (component C):
// a fixed-size circular byte buffer exposed as a read-only byte stream
// with drop-oldest overwrite semantics and record-aligned reads.
//
// Grounded on CarlosSprekelsen-radioContainer/rcc's
// internal/telemetry/hub.go, adapted from that file's slice-based
// EventBuffer into a true circular byte buffer since component C's
// contract (record-aligned overwrite, wrap-point-respecting reads) has no
// analogue in that file's in-memory event list. One mutex, with a
// condition variable for blocking readers, serializes the writer and all
// readers; there is no separate reader lock.
package telemetrydevice

import (
	"context"
	"errors"
	"sync"

	"github.com/launchsim/core/internal/errs"
	"github.com/launchsim/core/internal/metrics"
)

// DefaultCapacity is the default ring buffer size in bytes (spec.md §4.C).
const DefaultCapacity = 8192

// ErrAgain is returned by a non-blocking Read when no data is available.
var ErrAgain = errors.New("telemetrydevice: no data available")

// ErrDeviceUnavailable is returned when the device cannot be opened;
// it is the fixed errs.ErrDeviceUnavailable sentinel (spec.md §7), not
// a package-local error, so callers across components can match it
// with a single errors.Is check.
var ErrDeviceUnavailable = errs.ErrDeviceUnavailable

// ErrRecordTooLarge is returned when a record does not fit in the buffer.
var ErrRecordTooLarge = errors.New("telemetrydevice: record exceeds buffer capacity")

// ErrNotNewlineTerminated is returned when AppendRecord is given a record
// that does not end in a newline, violating record-alignment invariants.
var ErrNotNewlineTerminated = errors.New("telemetrydevice: record must end with '\\n'")

// Device is the single named, read-only byte-stream endpoint
// ("/dev/sls_telemetry" in spec.md §6). One producer calls AppendRecord;
// any number of readers call Open and then Read concurrently.
type Device struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf []byte

	writeOff  uint64 // total bytes ever written (absolute, monotonic)
	oldestOff uint64 // absolute offset of the oldest byte still valid; always a record boundary

	closed bool
}

// New creates a Device with the given capacity in bytes.
func New(capacity int) *Device {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	d := &Device{buf: make([]byte, capacity)}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// AppendRecord appends one complete, newline-terminated record. If the
// record would overtake the oldest unread bytes, the device drops the
// oldest complete records (advancing past their terminating newline) to
// make room — it never splits a record in place.
func (d *Device) AppendRecord(record []byte) error {
	if len(record) == 0 || record[len(record)-1] != '\n' {
		return ErrNotNewlineTerminated
	}
	if len(record) > len(d.buf) {
		return ErrRecordTooLarge
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDeviceUnavailable
	}

	capacity := uint64(len(d.buf))
	newWriteOff := d.writeOff + uint64(len(record))

	if newWriteOff-d.oldestOff > capacity {
		overflow := newWriteOff - d.oldestOff - capacity
		newOldest := advancePastNewline(d.buf, d.oldestOff+overflow, d.writeOff)
		for off := d.oldestOff; off < newOldest; off++ {
			if d.buf[off%capacity] == '\n' {
				metrics.IncTelemetryDrop() // one per overwritten record
			}
		}
		d.oldestOff = newOldest
	}

	writeIdx := int(d.writeOff % capacity)
	n := copy(d.buf[writeIdx:], record)
	if n < len(record) {
		copy(d.buf[0:], record[n:])
	}
	d.writeOff = newWriteOff

	d.cond.Broadcast()
	return nil
}

// advancePastNewline scans forward from `from` (inclusive) for the next
// newline byte, bounded by `limit`, and returns the offset just past it.
// Bytes in [from, limit) are still the pre-overwrite contents at call
// time, so the scan sees the true record boundaries being clobbered.
func advancePastNewline(buf []byte, from, limit uint64) uint64 {
	capacity := uint64(len(buf))
	off := from
	for off < limit {
		if buf[off%capacity] == '\n' {
			return off + 1
		}
		off++
	}
	return limit
}

// Close shuts the device down. Blocked readers wake; a reader still gets
// any bytes it has not yet read, after which Read returns
// (0, ErrDeviceClosed()).
func (d *Device) Close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
}

// Reader is a single reader's position in the stream. Multiple Readers
// may be open concurrently; each sees its own FIFO suffix of the
// producer's byte stream, per spec.md §8.
type Reader struct {
	dev     *Device
	readOff uint64
}

// Open returns a Reader positioned at the current oldest valid byte: it
// first sees every record still held in the buffer, then new appends.
// History already overwritten is not replayed, matching drop-oldest
// semantics.
func (d *Device) Open() (*Reader, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDeviceUnavailable
	}
	return &Reader{dev: d, readOff: d.oldestOff}, nil
}

// ReadNonBlocking copies up to len(p) bytes without crossing the ring
// buffer's wrap point. It returns ErrAgain if nothing is available yet.
func (r *Reader) ReadNonBlocking(p []byte) (int, error) {
	return r.read(p, false, context.Background())
}

// Read blocks until at least one byte is available, ctx is done (it then
// returns ctx.Err()), or the device is closed and drained (it then
// returns (0, ErrDeviceClosed())).
func (r *Reader) Read(ctx context.Context, p []byte) (int, error) {
	return r.read(p, true, ctx)
}

func (r *Reader) read(p []byte, blocking bool, ctx context.Context) (int, error) {
	d := r.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	var watcherDone chan struct{}
	if blocking {
		watcherDone = make(chan struct{})
		defer close(watcherDone)
		go func() {
			select {
			case <-ctx.Done():
				d.mu.Lock()
				d.cond.Broadcast()
				d.mu.Unlock()
			case <-watcherDone:
			}
		}()
	}

	for {
		if r.readOff < d.oldestOff {
			// fell behind the drop-oldest watermark; skip forward, never
			// exposing a clobbered partial record.
			r.readOff = d.oldestOff
		}

		avail := d.writeOff - r.readOff
		if avail > 0 {
			break
		}
		if d.closed {
			return 0, errDeviceClosed
		}
		if !blocking {
			return 0, ErrAgain
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		d.cond.Wait()
	}

	capacity := uint64(len(d.buf))
	avail := d.writeOff - r.readOff
	readIdx := r.readOff % capacity
	untilWrap := capacity - readIdx

	toCopy := uint64(len(p))
	if avail < toCopy {
		toCopy = avail
	}
	if untilWrap < toCopy {
		toCopy = untilWrap
	}

	copy(p[:toCopy], d.buf[readIdx:readIdx+toCopy])
	r.readOff += toCopy
	return int(toCopy), nil
}

var errDeviceClosed = errors.New("telemetrydevice: device closed")

// ErrDeviceClosed is returned by a blocking Read once the device has
// been closed and no further data is available.
func ErrDeviceClosed() error { return errDeviceClosed }
