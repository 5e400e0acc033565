// Package fruitbasket turns a Go program into a macOS application.
//
// A Go binary started from a terminal is not an app: it has no bundle
// identifier, no Dock icon, and cannot receive Apple events such as URL
// opens. fruitbasket fixes that in two steps.
//
// # Trampoline
//
// The first thing main does is make sure it runs from an app bundle:
//
//	app, err := fruitbasket.NewTrampoline("My App", "myapp", "com.example.myapp").
//	    Version("1.0.0").
//	    Icon("icon.icns").
//	    Build(ctx, fruitbasket.InstallUserApplications)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// If the program is already bundled, Build returns at once. Otherwise it
// writes <Name>.app (reusing an identical existing one), starts the bundled
// copy with the same arguments and exits with status 0. When the install
// directory is not writable the bundle goes to a temp directory instead.
//
// # Application environment
//
// The bundled process drives the AppKit event loop itself:
//
//	app.RegisterCallback(fruitbasket.MethodKey(fruitbasket.SelHandleEvent), func(ev fruitbasket.Event) {
//	    fmt.Println("open", fruitbasket.ParseURLEvent(ev))
//	})
//	app.RegisterAppleEvent(fruitbasket.KInternetEventClass, fruitbasket.KAEGetURL)
//	stop := app.Stopper()
//	go func() { <-done; stop.Stop() }()
//	app.Run(ctx, fruitbasket.RunForever)
//
// PumpOnce never blocks, so a program with its own main loop can call it
// between iterations instead of Run.
//
// # Environment
//
//	FRUITBASKET_DEBUG=1           debug logging
//	FRUITBASKET_NO_RELAUNCH=1     never build or relaunch
//	FRUITBASKET_LAUNCH=direct     exec the bundle binary instead of using open(1)
//	FRUITBASKET_INSTALL_DIR=temp  install location: user, temp, system or a path
//	FRUITBASKET_LOG_DEST=file:/p  log to stderr, file:<path> or both:<path>
package fruitbasket
