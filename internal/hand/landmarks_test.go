package hand

import (
	"encoding/json"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestJoints(t *testing.T) {
	joints := Joints()
	if len(joints) != NumJoints {
		t.Fatalf("expected %d joints, got %d", NumJoints, len(joints))
	}
	for i, j := range joints {
		if int(j) != i {
			t.Errorf("joint %d has value %d", i, int(j))
		}
		if !j.Valid() {
			t.Errorf("joint %s should be valid", j)
		}
	}
	if Joint(NumJoints).Valid() || Joint(-1).Valid() {
		t.Error("out of range joints should be invalid")
	}
}

func TestJoint_TextRoundTrip(t *testing.T) {
	tests := []struct {
		joint Joint
		name  string
	}{
		{Wrist, "wrist"},
		{ThumbTip, "thumbTip"},
		{IndexMCP, "indexMCP"},
		{MiddleTip, "middleTip"},
		{LittleTip, "littleTip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.joint.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText() error = %v", err)
			}
			if string(text) != tt.name {
				t.Errorf("MarshalText() = %q, want %q", text, tt.name)
			}

			var j Joint
			if err := j.UnmarshalText([]byte(tt.name)); err != nil {
				t.Fatalf("UnmarshalText() error = %v", err)
			}
			if j != tt.joint {
				t.Errorf("UnmarshalText() = %v, want %v", j, tt.joint)
			}
		})
	}

	var j Joint
	if err := j.UnmarshalText([]byte("pinkyTip")); err == nil {
		t.Error("expected error for unknown joint name")
	}
}

func TestLandmarkFrame_JSON(t *testing.T) {
	frame := LandmarkFrame{
		Wrist:    {Point: Point{X: 0.5, Y: 0.8}, Confidence: 0.9},
		IndexTip: {Point: Point{X: 0.58, Y: 0.35}, Confidence: 0.6},
	}

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded LandmarkFrame
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded[IndexTip] != frame[IndexTip] {
		t.Errorf("indexTip = %+v, want %+v", decoded[IndexTip], frame[IndexTip])
	}
	if _, ok := decoded[ThumbTip]; ok {
		t.Error("absent joints should stay absent")
	}
}

func TestDistance(t *testing.T) {
	got := Distance(Point{X: 0, Y: 0}, Point{X: 0.3, Y: 0.4})
	if math.Abs(got-0.5) > epsilon {
		t.Errorf("Distance() = %f, want 0.5", got)
	}
	if d := Distance(Point{X: 0.2, Y: 0.2}, Point{X: 0.2, Y: 0.2}); d != 0 {
		t.Errorf("Distance() of identical points = %f, want 0", d)
	}
}

func TestLandmarkFrame_Confident(t *testing.T) {
	frame := LandmarkFrame{Wrist: {Confidence: 0.5}}

	if _, ok := frame.Confident(Wrist, 0.5); ok {
		t.Error("confidence equal to the threshold must not pass")
	}
	if _, ok := frame.Confident(Wrist, 0.49); !ok {
		t.Error("confidence above the threshold should pass")
	}
	if _, ok := frame.Confident(ThumbTip, 0); ok {
		t.Error("missing joint should not pass")
	}

	var none LandmarkFrame
	if _, ok := none.Confident(Wrist, 0); ok {
		t.Error("nil frame should not report joints")
	}
}

func TestFixtures(t *testing.T) {
	tips := []Joint{ThumbTip, IndexTip, MiddleTip, RingTip, LittleTip}

	t.Run("presets report every joint", func(t *testing.T) {
		for name, f := range map[string]LandmarkFrame{"rock": RockFrame(), "paper": PaperFrame(), "scissors": ScissorsFrame()} {
			if len(f) != NumJoints {
				t.Errorf("%s: expected %d joints, got %d", name, NumJoints, len(f))
			}
		}
	})

	t.Run("rock tips are close to the wrist", func(t *testing.T) {
		f := RockFrame()
		for _, tip := range tips {
			if d := Distance(f[Wrist].Point, f[tip].Point); d >= 0.15 {
				t.Errorf("%s distance = %f, want < 0.15", tip, d)
			}
		}
	})

	t.Run("paper tips are far from the wrist", func(t *testing.T) {
		f := PaperFrame()
		for _, tip := range tips {
			if d := Distance(f[Wrist].Point, f[tip].Point); d <= 0.3 {
				t.Errorf("%s distance = %f, want > 0.3", tip, d)
			}
		}
	})

	t.Run("modifiers copy the frame", func(t *testing.T) {
		f := RockFrame()
		low := f.WithConfidence(Wrist, 0.1)
		if f[Wrist].Confidence != 0.9 {
			t.Error("WithConfidence must not modify the original frame")
		}
		if low[Wrist].Confidence != 0.1 {
			t.Errorf("wrist confidence = %f, want 0.1", low[Wrist].Confidence)
		}

		missing := f.Without(ThumbTip)
		if _, ok := missing[ThumbTip]; ok {
			t.Error("Without should remove the joint")
		}
		if _, ok := f[ThumbTip]; !ok {
			t.Error("Without must not modify the original frame")
		}
	})
}
