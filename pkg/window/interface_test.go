package window

import (
	"errors"
	"testing"
)

type MockDetector struct {
	windowInfo    *WindowInfo
	windowErr     error
	isAvailable   bool
	displayServer string
	closeError    error
}

func (m *MockDetector) GetFocusedWindow() (*WindowInfo, error) {
	return m.windowInfo, m.windowErr
}

func (m *MockDetector) IsAvailable() bool {
	return m.isAvailable
}

func (m *MockDetector) GetDisplayServer() string {
	return m.displayServer
}

func (m *MockDetector) Close() error {
	return m.closeError
}

func TestMockDetector(t *testing.T) {
	var _ Detector = (*MockDetector)(nil)

	mock := &MockDetector{
		windowInfo: &WindowInfo{
			WindowTitle:   "Test Window",
			DisplayServer: "x11",
		},
		isAvailable:   true,
		displayServer: "x11",
	}

	windowInfo, err := mock.GetFocusedWindow()
	if err != nil {
		t.Errorf("GetFocusedWindow() error: %v", err)
	}
	if windowInfo.WindowTitle != "Test Window" {
		t.Errorf("WindowTitle = %s, want Test Window", windowInfo.WindowTitle)
	}

	if !mock.IsAvailable() {
		t.Error("IsAvailable() = false, want true")
	}

	if mock.GetDisplayServer() != "x11" {
		t.Errorf("GetDisplayServer() = %s, want x11", mock.GetDisplayServer())
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestActiveTitle(t *testing.T) {
	tests := []struct {
		name     string
		detector Detector
		want     string
	}{
		{
			name:     "nil detector",
			detector: nil,
			want:     UnknownTitle,
		},
		{
			name:     "query error",
			detector: &MockDetector{windowErr: errors.New("permission denied")},
			want:     UnknownTitle,
		},
		{
			name:     "no active window",
			detector: &MockDetector{},
			want:     UnknownTitle,
		},
		{
			name:     "blank title",
			detector: &MockDetector{windowInfo: &WindowInfo{WindowTitle: "  "}},
			want:     UnknownTitle,
		},
		{
			name:     "focused window",
			detector: &MockDetector{windowInfo: &WindowInfo{WindowTitle: " Project Notes "}},
			want:     "Project Notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (TitleSource{Detector: tt.detector}).ActiveTitle(); got != tt.want {
				t.Errorf("ActiveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkActiveTitle(b *testing.B) {
	mock := &MockDetector{windowInfo: &WindowInfo{WindowTitle: "Example Page"}}
	for i := 0; i < b.N; i++ {
		_ = ActiveTitle(mock)
	}
}
