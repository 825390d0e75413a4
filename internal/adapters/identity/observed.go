package identity

import (
	"context"
	"time"
)

// Observer receives the outcome and latency of every provider call.
type Observer interface {
	ObserveIdentity(op string, err error, duration time.Duration)
}

type observed struct {
	next Provider
	obs  Observer
	now  func() time.Time
}

// WithObserver decorates p so each call is reported to obs.
// A nil obs returns p unchanged.
func WithObserver(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &observed{next: p, obs: obs, now: time.Now}
}

func (o *observed) report(op string, start time.Time, err error) {
	o.obs.ObserveIdentity(op, err, o.now().Sub(start))
}

func (o *observed) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	start := o.now()
	res, err := o.next.SignUp(ctx, in)
	o.report("sign_up", start, err)
	return res, err
}

func (o *observed) ConfirmSignUp(ctx context.Context, email, code string) error {
	start := o.now()
	err := o.next.ConfirmSignUp(ctx, email, code)
	o.report("confirm_sign_up", start, err)
	return err
}

func (o *observed) SignIn(ctx context.Context, in SignInInput) (Tokens, error) {
	start := o.now()
	tokens, err := o.next.SignIn(ctx, in)
	o.report("sign_in", start, err)
	return tokens, err
}

func (o *observed) SignOut(ctx context.Context, refreshToken string) error {
	start := o.now()
	err := o.next.SignOut(ctx, refreshToken)
	o.report("sign_out", start, err)
	return err
}

func (o *observed) CurrentUserAttributes(ctx context.Context, accessToken string) (Attributes, error) {
	start := o.now()
	attrs, err := o.next.CurrentUserAttributes(ctx, accessToken)
	o.report("current_user", start, err)
	return attrs, err
}
