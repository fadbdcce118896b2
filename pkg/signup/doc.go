// Package signup is the view model behind a sign-up form: an e-mail field,
// an e-mail confirmation field, a terms toggle, a debounced label of
// validation reasons and a gated submit action that checks username
// availability.
//
// The view model is wired once, at construction. The UI layer writes the
// three input properties and reads everything else:
//
//	loop := reactive.NewLoop()
//	vm := signup.New(userservice.NewStub(), signup.WithScheduler(loop))
//	defer vm.Close()
//
//	vm.Reasons().Subscribe(func(text string) { label.SetText(text) })
//	vm.Submit().Enabled().Subscribe(func(on bool) { button.SetEnabled(on) })
//	vm.Email().Set("a@gmail.com")
//	err := vm.Submit().Run()
//
// By default no field validator runs: the reasons label stays empty and the
// submit action is enabled whenever the e-mail is non-empty. Strict
// validation gates submission on the required suffix, a matching
// confirmation and accepted terms.
package signup
