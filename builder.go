package fruitbasket

// NewTrampoline starts a bundle description. Empty arguments take their
// defaults (see Spec). Retina support is on.
//
// Example:
//
//	app, err := fruitbasket.NewTrampoline("My App", "myapp", "com.example.myapp").
//	    Version("1.2.0").
//	    Icon("assets/icon.icns").
//	    Resource("assets/*.png").
//	    Build(ctx, fruitbasket.InstallUserApplications)
func NewTrampoline(name, exe, ident string) *Trampoline {
	return New(Spec{
		Name:       name,
		Executable: exe,
		Identifier: ident,
		Retina:     true,
	})
}

// Name sets the bundle name.
func (t *Trampoline) Name(name string) *Trampoline {
	t.spec.Name = name
	return t
}

// Exe sets the executable file name inside the bundle.
func (t *Trampoline) Exe(name string) *Trampoline {
	t.spec.Executable = name
	return t
}

// Ident sets the bundle identifier.
func (t *Trampoline) Ident(id string) *Trampoline {
	t.spec.Identifier = id
	return t
}

// Icon sets the icon file.
func (t *Trampoline) Icon(path string) *Trampoline {
	t.spec.Icon = path
	return t
}

// Version sets CFBundleVersion and, unless overridden by a plist key,
// CFBundleShortVersionString.
func (t *Trampoline) Version(v string) *Trampoline {
	t.spec.Version = v
	return t
}

// PlistKey adds one Info.plist entry.
func (t *Trampoline) PlistKey(key string, value any) *Trampoline {
	if t.spec.PlistKeys == nil {
		t.spec.PlistKeys = make(map[string]any)
	}
	t.spec.PlistKeys[key] = value
	return t
}

// PlistKeys adds several Info.plist entries.
func (t *Trampoline) PlistKeys(entries map[string]any) *Trampoline {
	for k, v := range entries {
		t.PlistKey(k, v)
	}
	return t
}

// PlistRaw adds an OpenStep plist fragment.
func (t *Trampoline) PlistRaw(fragment string) *Trampoline {
	t.spec.PlistRaw = append(t.spec.PlistRaw, fragment)
	return t
}

// Resource adds a file, directory or glob to copy into Resources.
func (t *Trampoline) Resource(path string) *Trampoline {
	t.spec.Resources = append(t.spec.Resources, path)
	return t
}

// Resources adds several resources.
func (t *Trampoline) Resources(paths ...string) *Trampoline {
	t.spec.Resources = append(t.spec.Resources, paths...)
	return t
}

// Retina toggles NSHighResolutionCapable.
func (t *Trampoline) Retina(on bool) *Trampoline {
	t.spec.Retina = on
	return t
}

// InstallIn sets the install directory used by EnsureBundled.
func (t *Trampoline) InstallIn(dir InstallDir) *Trampoline {
	t.spec.InstallDir = dir
	return t
}

// Link places the executable with mode instead of copying it.
func (t *Trampoline) Link(mode ExecutableMode) *Trampoline {
	t.spec.ExecutableMode = mode
	return t
}

// Spec returns a copy of the accumulated description.
func (t *Trampoline) Spec() Spec {
	return t.spec
}
