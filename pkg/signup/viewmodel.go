package signup

import (
	"context"
	"log/slog"
	"strings"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/userservice"
	"github.com/vango-dev/formbind/pkg/validation"
)

// SubmitActionName is the name the submit action reports to middleware.
const SubmitActionName = "submit"

// ViewModel owns the form fields, the reasons stream and the submit action.
// The username service is injected and not owned.
type ViewModel struct {
	svc    userservice.Service
	opts   settings
	logger *slog.Logger

	email    *validation.Property[string]
	confirm  *validation.Property[string]
	terms    *reactive.Property[bool]
	gates    []*reactive.Memo[bool]
	validate *reactive.Memo[string]

	combined  *reactive.Pipe[reactive.Pair[string, string]]
	debounced *reactive.Pipe[reactive.Pair[string, string]]
	reasons   *reactive.Pipe[string]

	submit       *reactive.Action[string, struct{}]
	invalidEmail *fberrors.Error

	diagnostics []*reactive.Subscription
}

// New wires a view model over svc.
func New(svc userservice.Service, opts ...Option) *ViewModel {
	o := defaultSettings()
	for _, opt := range opts {
		opt(&o)
	}

	vm := &ViewModel{
		svc:          svc,
		opts:         o,
		logger:       o.logger,
		terms:        reactive.NewProperty(false),
		invalidEmail: invalidEmailFor(o.suffix),
	}

	if o.strict {
		vm.email = validation.NewProperty("", validation.HasSuffix(o.suffix, vm.invalidEmail))
		vm.confirm = validation.NewPropertyWith("", reactive.Readable[string](vm.email),
			validation.Matches[string](ErrMismatchEmail))
		vm.gates = []*reactive.Memo[bool]{
			validation.Passed(vm.email.Result()),
			validation.Passed(vm.confirm.Result()),
		}
		vm.validate = validation.Gate[string](vm.email,
			vm.gates[0], vm.gates[1], reactive.Readable[bool](vm.terms))
	} else {
		vm.email = validation.NewProperty("", validation.PassThrough[string]())
		vm.confirm = validation.NewProperty("", validation.PassThrough[string]())
		vm.validate = validation.Gate[string](vm.email)
	}

	vm.combined = reactive.CombineLatest2[string, string](vm.email, vm.confirm)
	vm.debounced = reactive.Debounce[reactive.Pair[string, string]](vm.combined, o.debounce, o.sched)
	vm.reasons = reactive.Map[reactive.Pair[string, string]](vm.debounced, func(reactive.Pair[string, string]) string {
		return vm.CurrentReasons()
	})

	actionOpts := []reactive.ActionOption{
		reactive.ActionName(SubmitActionName),
		reactive.ActionScheduler(o.sched),
		reactive.DropWhileRunning(),
		reactive.ActionMiddleware(o.middleware...),
	}
	if o.lookupTimeout > 0 {
		actionOpts = append(actionOpts, reactive.ActionTimeout(o.lookupTimeout))
	}
	vm.submit = reactive.NewAction[string, struct{}](vm.validate, isPresent, vm.register, actionOpts...)

	vm.watch()
	return vm
}

func isPresent(email string) bool {
	return email != ""
}

// register is the submit work: strip the suffix, then ask the service.
func (vm *ViewModel) register(ctx context.Context, email string) (struct{}, error) {
	username, ok := strings.CutSuffix(email, vm.opts.suffix)
	if !ok {
		return struct{}{}, vm.invalidEmail
	}

	available, err := vm.svc.CanUseUsername(ctx, username)
	if err != nil {
		return struct{}{}, ErrUsernameUnavailable.Wrap(err)
	}
	if !available {
		return struct{}{}, ErrUsernameUnavailable
	}
	return struct{}{}, nil
}

// watch logs requests, submissions and field validation results.
func (vm *ViewModel) watch() {
	vm.diagnostics = append(vm.diagnostics,
		vm.svc.Requests().Subscribe(func(username string) {
			vm.logger.Info("username requested", slog.String("username", username))
		}),
		vm.submit.Completed().Subscribe(func(struct{}) {
			vm.logger.Info("submit completed")
		}),
		vm.submit.Errors().Subscribe(func(err error) {
			vm.logger.Warn("submit failed",
				slog.String("code", fberrors.CodeOf(err)),
				slog.String("error", err.Error()))
		}),
		vm.email.Subscribe(func(string) {
			vm.logField("email", vm.email.Validation())
		}),
		vm.confirm.Subscribe(func(string) {
			vm.logField("emailConfirmation", vm.confirm.Validation())
		}),
	)
}

func (vm *ViewModel) logField(field string, r validation.Result) {
	if r.IsValid() {
		vm.logger.Debug("field validated", slog.String("field", field), slog.Bool("valid", true))
		return
	}
	vm.logger.Debug("field validated",
		slog.String("field", field),
		slog.Bool("valid", false),
		slog.String("reason", r.Reason()))
}

// Email is the e-mail field.
func (vm *ViewModel) Email() *validation.Property[string] {
	return vm.email
}

// EmailConfirmation is the e-mail confirmation field.
func (vm *ViewModel) EmailConfirmation() *validation.Property[string] {
	return vm.confirm
}

// TermsAccepted is the terms toggle.
func (vm *ViewModel) TermsAccepted() *reactive.Property[bool] {
	return vm.terms
}

// Reasons emits the failure reasons of both e-mail fields, joined with
// "\n", once the fields have been quiet for the debounce window.
func (vm *ViewModel) Reasons() reactive.Stream[string] {
	return vm.reasons
}

// CurrentReasons returns the reasons text for the fields' current values,
// without waiting for the debounce window.
func (vm *ViewModel) CurrentReasons() string {
	return validation.Reasons(vm.email.Validation(), vm.confirm.Validation())
}

// ValidatedEmail is the address the submit action works on, or "" while
// the form does not pass its gates.
func (vm *ViewModel) ValidatedEmail() reactive.Readable[string] {
	return vm.validate
}

// Submit is the username availability action.
func (vm *ViewModel) Submit() *reactive.Action[string, struct{}] {
	return vm.submit
}

// Requests emits every username sent to the service.
func (vm *ViewModel) Requests() reactive.Stream[string] {
	return vm.svc.Requests()
}

// RequiredSuffix returns the domain stripped from submitted addresses.
func (vm *ViewModel) RequiredSuffix() string {
	return vm.opts.suffix
}

// Strict reports whether field validation gates submission.
func (vm *ViewModel) Strict() bool {
	return vm.opts.strict
}

// Close detaches every derived value and stops pending reasons delivery.
// The username service is not closed.
func (vm *ViewModel) Close() {
	for _, sub := range vm.diagnostics {
		sub.Unsubscribe()
	}
	vm.diagnostics = nil

	vm.submit.Dispose()
	vm.reasons.Dispose()
	vm.debounced.Dispose()
	vm.combined.Dispose()
	vm.validate.Dispose()
	for _, g := range vm.gates {
		g.Dispose()
	}
	vm.confirm.Dispose()
	vm.email.Dispose()
}
