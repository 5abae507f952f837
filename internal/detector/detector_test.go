package detector

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/rochambeau/internal/hand"
)

func TestJSONHand_ToHand(t *testing.T) {
	t.Run("visibility is the joint confidence", func(t *testing.T) {
		line := `{"hands":[{"points":[{"x":0.5,"y":0.8,"z":0,"visibility":0.9},{"x":0.55,"y":0.76,"z":0,"visibility":0.2}],"handedness":"Left","score":0.97}]}`

		var response struct {
			Hands []jsonHand `json:"hands"`
		}
		if err := json.Unmarshal([]byte(line), &response); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		h := response.Hands[0].toHand()
		if h.Handedness != "Left" {
			t.Errorf("Handedness = %q, want Left", h.Handedness)
		}
		if len(h.Landmarks) != 2 {
			t.Fatalf("expected 2 landmarks, got %d", len(h.Landmarks))
		}
		if got := h.Landmarks[hand.Wrist].Confidence; got != 0.9 {
			t.Errorf("wrist confidence = %f, want 0.9", got)
		}
		if got := h.Landmarks[hand.ThumbCMC].Confidence; got != 0.2 {
			t.Errorf("thumbCMC confidence = %f, want 0.2", got)
		}
		if _, ok := h.Landmarks[hand.ThumbTip]; ok {
			t.Error("unreported joints should be absent")
		}
	})

	t.Run("score is used without visibility", func(t *testing.T) {
		jh := jsonHand{Score: 0.8}
		for i := 0; i < hand.NumJoints+3; i++ {
			jh.Points = append(jh.Points, jsonPoint{X: float64(i) / 30, Y: 0.5})
		}

		h := jh.toHand()
		if len(h.Landmarks) != hand.NumJoints {
			t.Fatalf("expected %d landmarks, got %d", hand.NumJoints, len(h.Landmarks))
		}
		for j, obs := range h.Landmarks {
			if obs.Confidence != 0.8 {
				t.Errorf("%s confidence = %f, want 0.8", j, obs.Confidence)
			}
		}
		if got := h.Landmarks[hand.LittleTip].X; got != 20.0/30 {
			t.Errorf("littleTip X = %f, want %f", got, 20.0/30)
		}
	})
}

func TestMockDetector(t *testing.T) {
	frame := gocv.NewMat()
	defer frame.Close()

	t.Run("returns no hands by default", func(t *testing.T) {
		m := NewMockDetector()
		hands, err := m.Detect(&frame)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		m := NewMockDetector()
		m.SetHands([]Hand{RockHand(), PaperHand()})

		hands, err := m.Detect(&frame)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(hands))
		}
		if hands[0].Landmarks[hand.IndexTip] != hand.RockFrame()[hand.IndexTip] {
			t.Error("first hand should be the rock preset")
		}
		if m.Calls() != 1 {
			t.Errorf("Calls() = %d, want 1", m.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		m := NewMockDetector()
		want := errors.New("detector crashed")
		m.SetError(want)

		if _, err := m.Detect(&frame); !errors.Is(err, want) {
			t.Errorf("Detect() error = %v, want %v", err, want)
		}
		if err := m.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
}

func TestPresetHands(t *testing.T) {
	for name, h := range map[string]Hand{"rock": RockHand(), "paper": PaperHand(), "scissors": ScissorsHand()} {
		if len(h.Landmarks) != hand.NumJoints {
			t.Errorf("%s: expected %d landmarks, got %d", name, hand.NumJoints, len(h.Landmarks))
		}
		if h.Handedness != "Right" {
			t.Errorf("%s: handedness = %q, want Right", name, h.Handedness)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.5 || cfg.MinTrackingConf != 0.5 {
		t.Errorf("confidence thresholds = %v/%v, want 0.5/0.5", cfg.MinConfidence, cfg.MinTrackingConf)
	}
	if cfg.IdleTimeout <= 0 {
		t.Errorf("IdleTimeout = %v, want a positive default", cfg.IdleTimeout)
	}
}

func TestDecodeHands(t *testing.T) {
	two := `{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Right","score":0.9},{"points":[],"handedness":"Left","score":0.6}]}`

	tests := []struct {
		name     string
		line     string
		maxHands int
		want     []string
		wantErr  bool
	}{
		{name: "limited to one", line: two, maxHands: 1, want: []string{"Right"}},
		{name: "unlimited", line: two, maxHands: 0, want: []string{"Right", "Left"}},
		{name: "no hands", line: `{"hands":[]}`, maxHands: 1, want: []string{}},
		{name: "service error", line: `{"hands":[],"error":"bad jpeg"}`, maxHands: 1, wantErr: true},
		{name: "garbage", line: "Traceback (most recent call last):", maxHands: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := decodeHands([]byte(tt.line), tt.maxHands)
			if tt.wantErr {
				if err == nil {
					t.Fatal("decodeHands() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeHands() error = %v", err)
			}
			got := make([]string, 0, len(hands))
			for _, h := range hands {
				got = append(got, h.Handedness)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("hands = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("hand %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFirstExisting(t *testing.T) {
	empty := t.TempDir()
	full := t.TempDir()
	if err := os.WriteFile(filepath.Join(full, scriptName), []byte("# service"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := firstExisting([]string{empty, full}, scriptName); got != filepath.Join(full, scriptName) {
		t.Errorf("firstExisting() = %q, want the script in %s", got, full)
	}
	if got := firstExisting([]string{empty}, scriptName); got != "" {
		t.Errorf("firstExisting() = %q, want empty", got)
	}
}
