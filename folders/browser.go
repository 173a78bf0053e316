package folders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
)

const DefaultWaitTimeout = 10 * time.Second

// lastCrumbIsFolder is true once the last breadcrumb links to the folder passed in; the UI
// renders the previous page's trail for a moment after navigation.
const lastCrumbIsFolder = `(folderID) => {
	const a = document.querySelector('ul[class*="breadcrumb"] > li:last-child a');
	if (!a) {
		return false;
	}
	const path = a.pathname.replace(/\/+$/, '');
	return path.endsWith('/folder/' + encodeURIComponent(folderID));
}`

// trailLoaded waits for the breadcrumb trail of folderID specifically.
func trailLoaded(folderID string) *rod.EvalOptions {
	return rod.Eval(lastCrumbIsFolder, folderID)
}

type BrowserConfig struct {
	UIBase     string
	Username   string
	Password   string
	TOTPSecret string

	// Chrome binary; empty lets rod find or download one.
	ChromePath string
	Headless   bool

	// Upper bound on each wait for an element during login and navigation.
	WaitTimeout time.Duration
}

// Browser is a Surface driving headless Chrome through the UI's login form.
type Browser struct {
	config BrowserConfig
	logger zerolog.Logger

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func NewBrowser(config BrowserConfig, logger zerolog.Logger) *Browser {
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = DefaultWaitTimeout
	}
	config.UIBase = strings.TrimSuffix(config.UIBase, "/")

	return &Browser{
		config: config,
		logger: logger.With().Str("component", "browser").Logger(),
	}
}

func (b *Browser) start() error {
	l := launcher.New().
		Headless(b.config.Headless).
		Set("window-size", "1920,1080").
		Set("disable-gpu").
		Set("no-first-run")
	if b.config.ChromePath != "" {
		l = l.Bin(b.config.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("folders: failed to launch browser: %w", err)
	}
	b.launcher = l

	// no context here: Close must still work after the run's context is cancelled
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("folders: failed to connect to browser: %w", err)
	}
	b.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("folders: failed to open page: %w", err)
	}
	b.page = page

	b.logger.Debug().Str("control_url", controlURL).Msg("Browser started")
	return nil
}

// Login signs in with username and password, then answers the one-time code challenge.
func (b *Browser) Login(ctx context.Context) error {
	if b.page == nil {
		if err := b.start(); err != nil {
			return &LoginError{Step: "launch", Err: err}
		}
	}

	code, err := totp.GenerateCode(b.config.TOTPSecret, time.Now())
	if err != nil {
		return &LoginError{Step: "otp", Err: fmt.Errorf("couldn't generate one-time code: %w", err)}
	}

	page := b.page.Context(ctx)
	if err := page.Navigate(b.config.UIBase + "/login"); err != nil {
		return &LoginError{Step: "navigate", Err: err}
	}

	if err := b.fill(page, `[name="username"]`, b.config.Username); err != nil {
		return &LoginError{Step: "username", Err: err}
	}
	if err := b.fill(page, `[name="password"]`, b.config.Password); err != nil {
		return &LoginError{Step: "password", Err: err}
	}
	if err := b.click(page, `button[type="submit"]`); err != nil {
		return &LoginError{Step: "credentials submit", Err: err}
	}

	if err := b.fill(page, `[name="mfa"]`, code); err != nil {
		return &LoginError{Step: "mfa", Err: err}
	}
	if err := b.click(page, `button[type="submit"]`); err != nil {
		return &LoginError{Step: "mfa submit", Err: err}
	}

	if _, err := page.Timeout(b.config.WaitTimeout).Element("#react-main"); err != nil {
		return &LoginError{Step: "dashboard", Err: fmt.Errorf("element #react-main never appeared: %w", err)}
	}

	b.logger.Info().Str("ui_base", b.config.UIBase).Msg("Logged in to web UI")
	return nil
}

func (b *Browser) fill(page *rod.Page, selector, value string) error {
	el, err := page.Timeout(b.config.WaitTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s never appeared: %w", selector, err)
	}
	return el.CancelTimeout().Input(value)
}

func (b *Browser) click(page *rod.Page, selector string) error {
	el, err := page.Timeout(b.config.WaitTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s never appeared: %w", selector, err)
	}
	return el.CancelTimeout().Click(proto.InputMouseButtonLeft, 1)
}

// Breadcrumbs opens a folder page and returns its breadcrumb trail.
func (b *Browser) Breadcrumbs(ctx context.Context, orgID, folderID string) ([]string, error) {
	if b.page == nil {
		return nil, errors.New("folders: browser is not logged in")
	}

	target := FolderURL(b.config.UIBase, orgID, folderID)
	page := b.page.Context(ctx).Timeout(b.config.WaitTimeout)
	defer page.CancelTimeout()

	if err := page.Navigate(target); err != nil {
		return nil, fmt.Errorf("folders: couldn't open %s: %w", target, err)
	}
	if err := page.Wait(trailLoaded(folderID)); err != nil {
		return nil, fmt.Errorf("folders: breadcrumbs never loaded on %s: %w", target, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("folders: couldn't read %s: %w", target, err)
	}

	return ParseBreadcrumbs(html)
}

func (b *Browser) Close() error {
	var errs []error
	if b.page != nil {
		if err := b.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("folders: couldn't close page: %w", err))
		}
		b.page = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("folders: couldn't close browser: %w", err))
		}
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return errors.Join(errs...)
}
