package system

import "testing"

func TestParseMacOSVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    MacOSVersion
		wantErr bool
	}{
		{in: "14", want: MacOSVersion{Major: 14, Raw: "14"}},
		{in: "10.15", want: MacOSVersion{Major: 10, Minor: 15, Raw: "10.15"}},
		{in: "10.10.0", want: MacOSVersion{Major: 10, Minor: 10, Raw: "10.10.0"}},
		{in: "15.1.2", want: MacOSVersion{Major: 15, Minor: 1, Patch: 2, Raw: "15.1.2"}},
		{in: "", wantErr: true},
		{in: "x.1", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "14.-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMacOSVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMacOSVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMacOSVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMacOSVersionIsAtLeast(t *testing.T) {
	v := MacOSVersion{Major: 10, Minor: 15, Patch: 7}
	tests := []struct {
		min  MacOSVersion
		want bool
	}{
		{MacOSVersion{Major: 10, Minor: 10}, true},
		{MacOSVersion{Major: 10, Minor: 15, Patch: 7}, true},
		{MacOSVersion{Major: 10, Minor: 15, Patch: 8}, false},
		{MacOSVersion{Major: 11}, false},
		{MacOSVersion{Major: 9, Minor: 99}, true},
	}
	for _, tt := range tests {
		if got := v.IsAtLeast(tt.min); got != tt.want {
			t.Errorf("%v.IsAtLeast(%v) = %v, want %v", v, tt.min, got, tt.want)
		}
	}
	if got := v.String(); got != "10.15.7" {
		t.Errorf("String() = %q", got)
	}
}
