package engine

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		engineName string
		expected   string
		expectErr  bool
	}{
		{"native", NameNative, NameNative, false},
		{"ytdlp", NameYTDLP, NameYTDLP, false},
		{"empty defaults to native", "", NameNative, false},
		{"unknown", "wget", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(tt.engineName)

			if tt.expectErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if eng.Name() != tt.expected {
				t.Errorf("Expected engine %s, got %s", tt.expected, eng.Name())
			}
		})
	}
}
