//go:build linux

package kairos

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.uber.org/multierr"
	"go.viam.com/rdk/logging"
	"golang.org/x/sys/unix"
)

const readTick = 50 * time.Millisecond

// executor runs Python on the board and returns what it printed.
type executor interface {
	Exec(ctx context.Context, code string) (string, error)
}

type deviceLink interface {
	executor
	Close() error
}

// serialPort is the part of serial.Port the link needs.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// replLink talks to CircuitPython's raw REPL over the board's USB CDC port.
type replLink struct {
	mu      sync.Mutex
	dev     string
	logger  logging.Logger
	port    serialPort
	timeout time.Duration
}

func openLink(ctx context.Context, dev string, baud int, timeout time.Duration, logger logging.Logger) (*replLink, error) {
	if err := checkCharDevice(dev); err != nil {
		return nil, err
	}
	port, err := serial.Open(dev, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %v failed", dev)
	}
	l, err := newLink(ctx, dev, port, timeout, logger)
	if err != nil {
		return nil, multierr.Combine(err, port.Close())
	}
	return l, nil
}

func newLink(ctx context.Context, dev string, port serialPort, timeout time.Duration, logger logging.Logger) (*replLink, error) {
	if err := port.SetReadTimeout(readTick); err != nil {
		return nil, errors.Wrap(err, "set read timeout")
	}
	l := &replLink{dev: dev, logger: logger, port: port, timeout: timeout}
	if err := l.enterRawREPL(); err != nil {
		return nil, err
	}
	if _, err := l.Exec(ctx, prelude); err != nil {
		return nil, errors.Wrap(err, "load prelude")
	}
	logger.Infof("raw REPL ready on %s", dev)
	return l, nil
}

func (l *replLink) enterRawREPL() error {
	if err := l.write([]byte{'\r', ctrlC, ctrlC}); err != nil {
		return err
	}
	if err := l.write([]byte{'\r', ctrlA}); err != nil {
		return err
	}
	if _, err := l.readUntil(rawREPLBanner); err != nil {
		return errors.Wrap(err, "could not enter raw REPL")
	}
	return nil
}

// Exec runs code and returns its stdout. A Python exception is returned as an error.
func (l *replLink) Exec(ctx context.Context, code string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.port == nil {
		return "", errors.Errorf("link to %s is closed", l.dev)
	}
	l.logger.Debugf("exec on %s: %q", l.dev, code)

	if err := l.write(append([]byte(code), ctrlD)); err != nil {
		return "", err
	}
	stdout, stderr, err := l.readReply()
	if err != nil {
		// drop whatever is left of this reply so the next exec starts clean
		if rerr := l.enterRawREPL(); rerr != nil {
			err = multierr.Combine(err, rerr)
		}
		return "", err
	}
	if stderr != "" {
		return stdout, &execError{traceback: stderr}
	}
	l.logger.Debugf("output from %s: %q", l.dev, stdout)
	return stdout, nil
}

func (l *replLink) readReply() (stdout, stderr string, err error) {
	ack, err := l.readN(len(execAck))
	if err != nil {
		return "", "", err
	}
	if ack != execAck {
		return "", "", errors.Errorf("could not exec command, response %q", ack)
	}
	if stdout, err = l.readUntil(endOfOutput); err != nil {
		return "", "", err
	}
	if stderr, err = l.readUntil(endOfOutput); err != nil {
		return "", "", err
	}
	if _, err := l.readUntil(">"); err != nil {
		return "", "", err
	}
	return stdout, stderr, nil
}

func (l *replLink) write(b []byte) error {
	for len(b) > 0 {
		n := len(b)
		if n > writeChunk {
			n = writeChunk
		}
		if _, err := l.port.Write(b[:n]); err != nil {
			return errors.Wrapf(err, "write to %s", l.dev)
		}
		b = b[n:]
	}
	return nil
}

func (l *replLink) readN(n int) (string, error) {
	buf := make([]byte, 0, n)
	one := make([]byte, 1)
	deadline := time.Now().Add(l.timeout)
	for len(buf) < n {
		if time.Now().After(deadline) {
			return "", errors.Errorf("timed out reading from %s, got %q", l.dev, buf)
		}
		read, err := l.port.Read(one)
		if err != nil {
			return "", errors.Wrapf(err, "read from %s", l.dev)
		}
		if read == 1 {
			buf = append(buf, one[0])
		}
	}
	return string(buf), nil
}

// readUntil reads byte by byte so nothing past the suffix is consumed.
func (l *replLink) readUntil(suffix string) (string, error) {
	var buf []byte
	one := make([]byte, 1)
	deadline := time.Now().Add(l.timeout)
	for !bytes.HasSuffix(buf, []byte(suffix)) {
		if time.Now().After(deadline) {
			return "", errors.Errorf("timed out waiting for %q from %s, got %q", suffix, l.dev, buf)
		}
		n, err := l.port.Read(one)
		if err != nil {
			return "", errors.Wrapf(err, "read from %s", l.dev)
		}
		if n == 1 {
			buf = append(buf, one[0])
		}
	}
	return string(buf[:len(buf)-len(suffix)]), nil
}

// Close leaves the raw REPL and releases the port.
func (l *replLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return nil
	}
	err := l.write([]byte{'\r', ctrlB})
	err = multierr.Combine(err, l.port.Close())
	l.port = nil
	return err
}

func checkCharDevice(path string) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFCHR {
		return errors.Errorf("%s is not a character device", path)
	}
	return nil
}
