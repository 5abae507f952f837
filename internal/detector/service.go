package detector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// scriptName is the Python service behind MediaPipeDetector.
//
// Protocol: for each frame the detector writes a 4-byte big-endian length and a JPEG,
// and the service answers with one JSON line:
//
//	{"hands":[{"points":[{"x":..,"y":..,"z":..,"visibility":..}, ...21], "handedness":"Right","score":0.97}]}
const scriptName = "mediapipe_service.py"

// errScriptNotFound is returned when no copy of the service script exists.
var errScriptNotFound = errors.New(scriptName + " not found")

// service owns the Python process. It starts on the first request, stops after
// idle time without requests and restarts after a failed exchange.
type service struct {
	script string
	python string
	args   []string
	idle   time.Duration

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	timer  *time.Timer
}

func newService(cfg Config) (*service, error) {
	script := findMediaPipeScript()
	if script == "" {
		return nil, errScriptNotFound
	}
	python := findVenvPython()
	if python == "" {
		python = "python3"
	}
	return &service{
		script: script,
		python: python,
		idle:   cfg.IdleTimeout,
		args: []string{
			"--max-hands", strconv.Itoa(cfg.MaxHands),
			"--min-detection-confidence", strconv.FormatFloat(cfg.MinConfidence, 'f', -1, 64),
			"--min-tracking-confidence", strconv.FormatFloat(cfg.MinTrackingConf, 'f', -1, 64),
		},
	}, nil
}

// exchange sends one encoded frame and returns the service's reply line.
func (s *service) exchange(frame []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.start(); err != nil {
		return nil, err
	}

	msg := make([]byte, 4+len(frame))
	binary.BigEndian.PutUint32(msg, uint32(len(frame)))
	copy(msg[4:], frame)

	if _, err := s.stdin.Write(msg); err != nil {
		s.stop()
		return nil, fmt.Errorf("send frame: %w", err)
	}
	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		s.stop()
		return nil, fmt.Errorf("read reply: %w", err)
	}

	s.armIdle()
	return line, nil
}

func (s *service) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop()
}

func (s *service) start() error {
	if s.cmd != nil {
		return nil
	}

	cmd := exec.Command(s.python, append([]string{s.script}, s.args...)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = log.Logger.With().Str("component", "mediapipe").Logger()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}
	log.Info().Str("python", s.python).Str("script", s.script).Int("pid", cmd.Process.Pid).Msg("mediapipe service started")

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	return nil
}

// stop closes stdin, which ends the service's read loop, and waits for it to exit.
func (s *service) stop() error {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cmd == nil {
		return nil
	}

	s.stdin.Close()
	err := s.cmd.Wait()
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil
	log.Info().Msg("mediapipe service stopped")
	return err
}

func (s *service) armIdle() {
	if s.idle <= 0 {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(s.idle, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A newer request replaced this timer.
		if s.timer != t {
			return
		}
		s.timer = nil
		s.stop()
	})
	s.timer = t
}

// findMediaPipeScript looks in ROCHAMBEAU_SCRIPTS_DIR, then next to the working directory,
// then next to the executable, then under ~/.rochambeau.
func findMediaPipeScript() string {
	var dirs []string
	if dir := os.Getenv("ROCHAMBEAU_SCRIPTS_DIR"); dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, "scripts", filepath.Join("..", "scripts"))
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "scripts"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".rochambeau", "scripts"))
	}
	return firstExisting(dirs, scriptName)
}

// findVenvPython looks for a virtual environment interpreter in the same places as the script.
func findVenvPython() string {
	dirs := []string{".", "..", filepath.Join("..", "..")}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".rochambeau"))
	}
	return firstExisting(dirs, filepath.Join("venv", "bin", "python"))
}

func firstExisting(dirs []string, name string) string {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}
