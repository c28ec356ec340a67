// Package catalog retrieves the published release catalog over HTTP and
// parses its version table. It implements watcher.CatalogSourceInterface;
// everything about authentication, cookies, and markup stays in here.
package catalog

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"rwd/internal/models"
	"rwd/internal/providers"
	"rwd/internal/structures"
	"rwd/internal/watcher"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/retry"
)

type Client struct {
	config *structures.Config
	logger providers.Logger
	http   *http.Client
}

func NewClient(conf *structures.Config, logger providers.Logger) (watcher.CatalogSourceInterface, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	timeout := conf.Catalog.Timeout * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config: conf,
		logger: logger,
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// Snapshot fetches the catalog page and returns its (name, raw version)
// rows in document order. Transient fetch failures are retried; a run that
// exhausts its attempts fails with ErrRetrievalFailed.
func (c *Client) Snapshot() ([]models.CatalogRow, error) {
	var rows []models.CatalogRow

	err := retry.Do(
		func() error {
			var err error
			rows, err = c.fetch()
			return err
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.MaxDelay(30*time.Second),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warnf(providers.TypeWatch, "Catalog fetch attempt %d failed: %s", n+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", watcher.ErrRetrievalFailed, err)
	}

	c.logger.Infof(providers.TypeWatch, "Catalog snapshot fetched, %d rows", len(rows))
	return rows, nil
}

func (c *Client) fetch() ([]models.CatalogRow, error) {
	if c.config.Catalog.Username != "" {
		if err := c.login(); err != nil {
			return nil, err
		}
	}

	resp, err := c.http.Get(c.config.Catalog.DataURL)
	if err != nil {
		return nil, fmt.Errorf("get catalog page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse catalog page: %w", err)
	}

	var rows []models.CatalogRow
	doc.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		if name == "" {
			return
		}
		// The version cell carries one link per published build, newest
		// first; the first link's text is the current version.
		link := cells.Eq(1).Find("a").First()
		if link.Length() == 0 {
			return
		}
		rows = append(rows, models.CatalogRow{
			Name:       name,
			RawVersion: strings.TrimSpace(link.Text()),
		})
	})

	return rows, nil
}

func (c *Client) login() error {
	resp, err := c.http.PostForm(c.config.Catalog.LoginURL, url.Values{
		"username": {c.config.Catalog.Username},
		"password": {c.config.Catalog.Password},
	})
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	// A successful login redirects away from the login form.
	if resp.Request.URL.String() == c.config.Catalog.LoginURL {
		return fmt.Errorf("login rejected for user %s", c.config.Catalog.Username)
	}
	return nil
}
