//go:build !darwin

package appkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tmc/fruitbasket/internal/bundle"
	"github.com/tmc/fruitbasket/internal/plist"
)

func fakeBundle(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Fake.app")
	l := bundle.Layout{Root: root}
	if err := os.MkdirAll(l.Resources(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(l.Resource("icon", "png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(l.Resource("assets", ""), 0755); err != nil {
		t.Fatal(err)
	}
	err := plist.WriteFile(l.InfoPlist(), map[string]any{
		plist.KeyIdentifier:     "com.example.fake",
		plist.KeyVersion:        "2.0.0",
		plist.KeyHighResolution: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRuntimeResourcePath(t *testing.T) {
	root := fakeBundle(t)
	r := &Runtime{Root: root}

	tests := []struct {
		name, ext string
		want      bool
	}{
		{"icon", "png", true},
		{"icon", "icns", false},
		{"missing", "", false},
		{"assets", "", false},
		{"", "png", false},
	}
	for _, tt := range tests {
		got, ok := r.ResourcePath(tt.name, tt.ext)
		if ok != tt.want {
			t.Errorf("ResourcePath(%q, %q) = %q, %v; want ok=%v", tt.name, tt.ext, got, ok, tt.want)
		}
		if ok && filepath.Dir(got) != (bundle.Layout{Root: root}).Resources() {
			t.Errorf("ResourcePath(%q, %q) = %q outside Resources", tt.name, tt.ext, got)
		}
	}
}

func TestRuntimeInfoValue(t *testing.T) {
	r := &Runtime{Root: fakeBundle(t)}
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{plist.KeyIdentifier, "com.example.fake", true},
		{plist.KeyVersion, "2.0.0", true},
		{plist.KeyHighResolution, "true", true},
		{"NoSuchKey", "", false},
	}
	for _, tt := range tests {
		got, ok := r.InfoValue(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("InfoValue(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRuntimeUnbundled(t *testing.T) {
	// Test binaries never live inside an app bundle.
	r := New()
	if _, ok := r.ResourcePath("icon", "png"); ok {
		t.Error("ResourcePath succeeded outside a bundle")
	}
	if _, ok := r.InfoValue(plist.KeyIdentifier); ok {
		t.Error("InfoValue succeeded outside a bundle")
	}
}

func TestRuntimeEvents(t *testing.T) {
	r := New()
	var got []Event
	if err := r.CreateApp(func(ev Event) { got = append(got, ev) }); err != nil {
		t.Fatal(err)
	}
	r.FinishLaunching()
	if _, ok := r.NextEvent(); ok {
		t.Error("NextEvent returned an event")
	}
	if r.SetActivationPolicy(PolicyAccessory) {
		t.Error("SetActivationPolicy succeeded")
	}
	if err := r.RegisterAppleEvent(KInternetEventClass, KAEGetURL); err != nil {
		t.Errorf("RegisterAppleEvent = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("dispatched %v", got)
	}
}
