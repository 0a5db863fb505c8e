package progress

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mvenus2/RedditVideoMakerBot/config"
)

// State tracks the monitor lifecycle. A monitor runs at most once.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Monitor tails the key=value report an encoder writes when pointed at a
// progress file, converts out_time_ms microsecond counters into a completion
// fraction and forwards it to a callback. Parsing never blocks the encode:
// the file is polled on a ticker from a separate goroutine.
type Monitor struct {
	// Interval is the poll cadence. Tests shrink it.
	Interval time.Duration

	mu       sync.Mutex
	state    State
	file     *os.File
	path     string
	total    float64
	fraction float64
	callback func(float64)

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewMonitor() *Monitor {
	return &Monitor{Interval: config.ProgressPollInterval}
}

// Start creates the progress file and begins polling it. It returns the
// file path, which the caller hands to the encoder. totalSeconds at or
// below zero disables reporting but the file is still produced so the
// encoder has somewhere to write.
func (m *Monitor) Start(totalSeconds float64, onProgress func(float64)) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return "", fmt.Errorf("progress monitor already %s", m.state)
	}

	f, err := os.CreateTemp("", "render-progress-*.txt")
	if err != nil {
		return "", fmt.Errorf("create progress file: %w", err)
	}

	m.file = f
	m.path = f.Name()
	m.total = totalSeconds
	m.callback = onProgress
	m.done = make(chan struct{})
	m.state = Running

	m.wg.Add(1)
	go m.loop()
	return m.path, nil
}

// Stop ends polling after one final read so a report written just before
// the encoder exited is not lost. It is safe to call more than once and
// leaves the progress file on disk for inspection.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		if m.state != Running {
			m.mu.Unlock()
			return
		}
		close(m.done)
		m.mu.Unlock()
		m.wg.Wait()

		m.mu.Lock()
		frac, cb, ok := m.pollLocked()
		m.file.Close()
		m.state = Stopped
		m.mu.Unlock()
		if ok && cb != nil {
			cb(frac)
		}
	})
}

// Fraction returns the most recent completion fraction. It is not clamped:
// encoders can overshoot the probed duration slightly.
func (m *Monitor) Fraction() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fraction
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Path returns the progress file location, empty before Start.
func (m *Monitor) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

func (m *Monitor) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			frac, cb, ok := m.pollLocked()
			m.mu.Unlock()
			if ok && cb != nil {
				cb(frac)
			}
		}
	}
}

// pollLocked consumes the bytes appended since the previous read. Only
// complete lines are parsed; a partial trailing line is pushed back for the
// next tick. The last out_time_ms in the batch wins. Callers hold m.mu and
// invoke the returned callback after releasing it.
func (m *Monitor) pollLocked() (float64, func(float64), bool) {
	buf, err := io.ReadAll(m.file)
	if err != nil || len(buf) == 0 {
		return 0, nil, false
	}
	data := string(buf)
	cut := strings.LastIndexByte(data, '\n')
	if cut < 0 {
		m.file.Seek(-int64(len(buf)), io.SeekCurrent)
		return 0, nil, false
	}
	if cut < len(data)-1 {
		m.file.Seek(int64(cut+1-len(data)), io.SeekCurrent)
		data = data[:cut+1]
	}

	micros, ok := lastOutTime(data)
	if !ok || m.total <= 0 {
		return 0, nil, false
	}
	m.fraction = float64(micros) / 1e6 / m.total
	return m.fraction, m.callback, true
}

func lastOutTime(data string) (int64, bool) {
	var micros int64
	found := false
	for _, line := range strings.Split(data, "\n") {
		value, ok := strings.CutPrefix(strings.TrimSpace(line), "out_time_ms=")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		micros = n
		found = true
	}
	return micros, found
}
