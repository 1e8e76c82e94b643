package types

import (
	"testing"
)

func TestPlatformValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Platform
		wantErr bool
	}{
		{"android valid", PlatformAndroid, false},
		{"ios valid", PlatformIOS, false},
		{"empty invalid", "", true},
		{"invalid value", "windows", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Platform.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlatformHelpers(t *testing.T) {
	if !PlatformAndroid.IsAndroid() {
		t.Error("android.IsAndroid() should be true")
	}
	if !PlatformIOS.IsIOS() {
		t.Error("ios.IsIOS() should be true")
	}
	if PlatformAndroid.IsIOS() {
		t.Error("android.IsIOS() should be false")
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Platform
		wantErr bool
	}{
		{"android lowercase", "android", PlatformAndroid, false},
		{"ios uppercase", "IOS", PlatformIOS, false},
		{"empty", "", "", true},
		{"invalid", "blackberry", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePlatform() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParsePlatform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateModeValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       UpdateMode
		wantErr bool
	}{
		{"store valid", UpdateModeStore, false},
		{"remote valid", UpdateModeRemote, false},
		{"mock valid", UpdateModeMock, false},
		{"empty invalid", "", true},
		{"invalid value", "carrier-pigeon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateMode.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseUpdateMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    UpdateMode
		wantErr bool
	}{
		{"store", "store", UpdateModeStore, false},
		{"remote mixed case", "Remote", UpdateModeRemote, false},
		{"mock", "mock", UpdateModeMock, false},
		{"invalid", "local", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUpdateMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseUpdateMode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseUpdateMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDownloadModeValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       DownloadMode
		wantErr bool
	}{
		{"immediate valid", DownloadModeImmediate, false},
		{"flexible valid", DownloadModeFlexible, false},
		{"empty invalid", "", true},
		{"invalid value", "eager", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("DownloadMode.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGateOutcomeValidate(t *testing.T) {
	tests := []struct {
		name    string
		o       GateOutcome
		wantErr bool
	}{
		{"positive valid", GateOutcomePositive, false},
		{"negative valid", GateOutcomeNegative, false},
		{"dismiss valid", GateOutcomeDismiss, false},
		{"empty invalid", "", true},
		{"invalid value", "maybe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("GateOutcome.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseGateOutcome(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    GateOutcome
		wantErr bool
	}{
		{"positive", "positive", GateOutcomePositive, false},
		{"dismiss uppercase", "DISMISS", GateOutcomeDismiss, false},
		{"invalid", "shrug", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGateOutcome(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseGateOutcome() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseGateOutcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllEnumSets(t *testing.T) {
	if got := len(AllPlatforms()); got != 2 {
		t.Errorf("AllPlatforms() returned %d entries, want 2", got)
	}
	if got := len(AllUpdateModes()); got != 3 {
		t.Errorf("AllUpdateModes() returned %d entries, want 3", got)
	}
	if got := len(AllDownloadModes()); got != 2 {
		t.Errorf("AllDownloadModes() returned %d entries, want 2", got)
	}
	if got := len(AllGateOutcomes()); got != 3 {
		t.Errorf("AllGateOutcomes() returned %d entries, want 3", got)
	}
}
