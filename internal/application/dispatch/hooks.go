package dispatch

import (
	"context"
	"net/url"
	"strings"
)

// Notifier shows a transient error message to the user
type Notifier interface {
	NotifyError(ctx context.Context, message string)
}

// Confirmation is a yes/no question put to the user
type Confirmation struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

// Prompter asks the user to confirm. An error means no answer was given.
type Prompter interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// Navigator moves the hosting application to another screen
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// SessionCache is the part of the session the dispatcher needs: the
// token for outgoing requests and a way to drop the session on 401
type SessionCache interface {
	Token() string
	Invalidate(ctx context.Context)
}

// Screens the dispatcher navigates to
const (
	LoginPath     = "/login"
	ForbiddenPath = "/403"
)

// RedirectParam carries the location to return to after login
const RedirectParam = "redirect"

// LoginRedirect returns the login path that leads back to from once the
// user has logged in again. Login screens are not remembered.
func LoginRedirect(from string) string {
	if from == "" || from == LoginPath || strings.HasPrefix(from, LoginPath+"?") {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{RedirectParam: {from}}.Encode()
}

// ReauthPrompt is shown when the backend answers with envelope code 401
var ReauthPrompt = Confirmation{
	Title:       "系统提示",
	Message:     "登录状态已过期，请重新登录",
	ConfirmText: "重新登录",
	CancelText:  "取消",
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(context.Context, string) {}

type nopPrompter struct{}

func (nopPrompter) Confirm(context.Context, Confirmation) (bool, error) { return false, nil }

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string) {}
