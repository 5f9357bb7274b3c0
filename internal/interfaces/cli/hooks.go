// Package cli adapts the dispatcher and session hooks to a terminal:
// notifications go to stderr, confirmations use huh forms and navigation
// becomes a hint about which command to run next.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/erp/client/internal/application/dispatch"
	"github.com/erp/client/internal/domain/identity"
	"go.uber.org/zap"
)

// ErrNotInteractive is returned by prompts when no terminal is attached
var ErrNotInteractive = errors.New("not running interactively")

// Notifier prints error messages to w
type Notifier struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.Logger
}

// NewNotifier creates a notifier writing to w
func NewNotifier(w io.Writer, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{w: w, logger: logger}
}

func (n *Notifier) NotifyError(_ context.Context, message string) {
	n.logger.Debug("notify", zap.String("message", message))
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "错误: %s\n", message)
}

// Prompter asks yes/no questions on the terminal
type Prompter struct {
	interactive bool
	accessible  bool
}

// NewPrompter creates a prompter. A non-interactive prompter never asks
// and returns ErrNotInteractive.
func NewPrompter(interactive, accessible bool) *Prompter {
	return &Prompter{interactive: interactive, accessible: accessible}
}

func (p *Prompter) Confirm(ctx context.Context, c dispatch.Confirmation) (bool, error) {
	if !p.interactive {
		return false, ErrNotInteractive
	}
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(c.Title).
				Description(c.Message).
				Affirmative(c.ConfirmText).
				Negative(c.CancelText).
				Value(&ok),
		),
	).WithAccessible(p.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return ok, nil
}

// Credentials asks for a username and password, keeping preset values
func (p *Prompter) Credentials(ctx context.Context, preset identity.Credentials) (identity.Credentials, error) {
	creds := preset
	if creds.Username != "" && creds.Password != "" {
		return creds, nil
	}
	if !p.interactive {
		return creds, ErrNotInteractive
	}

	required := func(s string) error {
		if s == "" {
			return errors.New("不能为空")
		}
		return nil
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("用户名").
				Value(&creds.Username).
				Validate(required),
			huh.NewInput().
				Title("密码").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(required),
		),
	).WithAccessible(p.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		return identity.Credentials{}, err
	}
	return creds, nil
}

// StaticPrompter answers every confirmation the same way, for --yes flags
// and scripts
type StaticPrompter bool

func (s StaticPrompter) Confirm(context.Context, dispatch.Confirmation) (bool, error) {
	return bool(s), nil
}

// Navigator turns screen changes into hints on w
type Navigator struct {
	mu     sync.Mutex
	w      io.Writer
	last   string
	hints  map[string]string
	logger *zap.Logger
}

// NewNavigator creates a navigator writing hints to w
func NewNavigator(w io.Writer, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		w: w,
		hints: map[string]string{
			dispatch.LoginPath:     "请运行 `erpctl login` 重新登录",
			dispatch.ForbiddenPath: "当前账号无权访问该资源",
		},
		logger: logger,
	}
}

func (n *Navigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = path
	n.logger.Debug("navigate", zap.String("path", path))
	screen, _, _ := strings.Cut(path, "?")
	if hint, ok := n.hints[screen]; ok {
		fmt.Fprintln(n.w, hint)
	}
}

// Last returns the most recent navigation target
func (n *Navigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// SessionObserver logs session ends. On logout it sends the navigator to
// the login screen, remembering where the user was.
type SessionObserver struct {
	nav    dispatch.Navigator
	logger *zap.Logger
}

// NewSessionObserver creates an observer navigating through nav, which
// may be nil
func NewSessionObserver(nav dispatch.Navigator, logger *zap.Logger) *SessionObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionObserver{nav: nav, logger: logger}
}

func (o *SessionObserver) OnSessionExpired() {
	o.logger.Info("session expired")
}

func (o *SessionObserver) OnLoggedOut() {
	o.logger.Info("logged out")
	if o.nav == nil {
		return
	}
	var from string
	if l, ok := o.nav.(interface{ Last() string }); ok {
		from = l.Last()
	}
	o.nav.Navigate(context.Background(), dispatch.LoginRedirect(from))
}
