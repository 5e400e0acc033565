package appkit

import "testing"

func TestActivationPolicyString(t *testing.T) {
	tests := []struct {
		p    ActivationPolicy
		want string
	}{
		{PolicyRegular, "regular"},
		{PolicyAccessory, "accessory"},
		{PolicyProhibited, "prohibited"},
		{ActivationPolicy(7), "ActivationPolicy(7)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.p), got, tt.want)
		}
	}
}

func TestAppleEventCodes(t *testing.T) {
	// Four-character codes are big-endian ASCII.
	fourcc := func(s string) uint32 {
		return uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])
	}
	if KInternetEventClass != fourcc("GURL") || KAEGetURL != fourcc("GURL") {
		t.Errorf("GURL = %#x", KInternetEventClass)
	}
	if KeyDirectObject != fourcc("----") {
		t.Errorf("keyDirectObject = %#x", KeyDirectObject)
	}
}
