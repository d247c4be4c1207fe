package scraper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"log/slog"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"golang.org/x/time/rate"

	"gsrcli/internal/config"
	apierrors "gsrcli/internal/errors"
)

// Banner names the raw export GJIREVO.csv; the file is renamed once the run
// metadata has been read out of it.
const rawExportName = "GJIREVO.csv"

// Client drives a headless browser through the Banner self-service pages:
// login, SWRCGSR job submission, and retrieval of the GJIREVO output file.
type Client struct {
	cfg     config.BannerConfig
	paths   *config.Paths
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a Banner scraping client. Submissions are paced by
// cfg.RequestsPerMinute so repeated term loops do not hammer the portal.
func NewClient(cfg config.BannerConfig, paths *config.Paths, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		paths:   paths,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), cfg.Burst),
		logger:  logger.With(slog.String("component", "banner_scraper")),
	}
}

// Limiter exposes the submission pacer, mainly for tests and status pages.
func (c *Client) Limiter() *rate.Limiter {
	return c.limiter
}

// Retrieve submits one SWRCGSR job and downloads its GJIREVO export. It
// returns the path of the saved raw file; renaming by report metadata is the
// caller's job because it requires parsing the file.
func (c *Client) Retrieve(ctx context.Context, params JobParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return "", apierrors.NewConfigError("banner credentials are not configured", nil)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.PageTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !c.cfg.ShowBrowser),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	c.logger.InfoContext(ctx, "submitting enrollment job",
		slog.String("term", params.Term),
		slog.String("subject", params.Subject),
		slog.String("status", params.Status()))

	var output string
	tasks := chromedp.Tasks{
		c.login(),
		c.openJobForm(),
		c.fillJobForm(params),
		c.submitAndCollect(&output),
	}
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return "", apierrors.NewNetworkError("enrollment job failed", err).
			WithContext("term", params.Term)
	}

	if strings.TrimSpace(output) == "" {
		return "", apierrors.NewNetworkError("job produced no output", nil).
			WithContext("term", params.Term)
	}

	dest := c.paths.GetDownloadPath(rawExportName)
	if err := os.WriteFile(dest, []byte(output), 0o644); err != nil {
		return "", apierrors.NewStorageError("saving export failed", err)
	}

	c.logger.InfoContext(ctx, "export saved",
		slog.String("path", dest),
		slog.Int("bytes", len(output)))
	return dest, nil
}

// login authenticates against the application navigator. The landing page is
// a plain username/password form.
func (c *Client) login() chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(c.cfg.BaseURL),
		chromedp.WaitVisible(`#username`, chromedp.ByID),
		chromedp.SendKeys(`#username`, c.cfg.Username, chromedp.ByID),
		chromedp.SendKeys(`#password`, c.cfg.Password, chromedp.ByID),
		chromedp.Submit(`#password`, chromedp.ByID),
		chromedp.WaitVisible(`#search-landing`, chromedp.ByID),
	}
}

// openJobForm searches for the SWRCGSR process and advances past the
// parameter-free first block. Application navigator pages are keyboard
// driven, so the flow sends the same key sequence an operator would.
func (c *Client) openJobForm() chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.SendKeys(`#search-landing`, "SWRCGSR"+kb.Enter, chromedp.ByID),
		chromedp.WaitVisible(`.workspace`, chromedp.ByQuery),
		nextBlock(),
		// printer control block: route output to the database
		chromedp.KeyEvent("DATABASE"),
		nextBlock(),
	}
}

// fillJobForm types each parameter value and arrows down to the next row of
// the submission table.
func (c *Client) fillJobForm(params JobParams) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		if err := chromedp.KeyEvent(kb.Tab).Do(ctx); err != nil {
			return err
		}
		for i, value := range params.fieldSequence() {
			if i > 0 {
				if err := chromedp.KeyEvent(kb.ArrowDown).Do(ctx); err != nil {
					return err
				}
			}
			if err := chromedp.KeyEvent(value).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

// submitAndCollect saves the job, opens the related GJIREVO output view, and
// copies the spooled file text out of the viewer.
func (c *Client) submitAndCollect(output *string) chromedp.Tasks {
	return chromedp.Tasks{
		nextBlock(),
		chromedp.KeyEvent(kb.F10),
		// Related > first entry is the GJIREVO output list.
		chromedp.KeyEvent("r", chromedp.KeyModifiers(input.ModifierAlt|input.ModifierShift)),
		chromedp.KeyEvent(kb.ArrowDown),
		chromedp.KeyEvent(kb.Enter),
		waitForSpool(),
		chromedp.WaitVisible(`.output-viewer`, chromedp.ByQuery),
		chromedp.Text(`.output-viewer`, output, chromedp.ByQuery),
	}
}

// nextBlock is the Alt+PageDown "next section" chord the navigator uses.
func nextBlock() chromedp.Action {
	return chromedp.KeyEvent(kb.PageDown, chromedp.KeyModifiers(input.ModifierAlt))
}

// waitForSpool polls for the finished-run marker. The report is generated
// server side and lands in the output list with no client-side event, so the
// only signal is the list entry appearing.
func waitForSpool() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			var count int
			err := chromedp.Evaluate(
				`document.querySelectorAll('.output-list .output-row').length`,
				&count,
			).Do(ctx)
			if err == nil && count > 0 {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("waiting for job output: %w", ctx.Err())
			case <-ticker.C:
			}
		}
	}
}
