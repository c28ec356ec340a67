// Package mailbox fetches raw messages over IMAP. It implements
// watcher.MailboxInterface; every run opens a fresh connection, reads the
// whole folder, and logs out; no connection state survives between runs.
package mailbox

import (
	"fmt"
	"io"
	"rwd/internal/models"
	"rwd/internal/providers"
	"rwd/internal/structures"
	"rwd/internal/watcher"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

type Client struct {
	config *structures.Config
	logger providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) watcher.MailboxInterface {
	return &Client{
		config: conf,
		logger: logger,
	}
}

// FetchAll retrieves every message in the folder as raw RFC 822 bytes.
// The "all messages" criterion is deliberate: the folder is the unit of
// scan, not the unseen flag.
func (c *Client) FetchAll(folder string) ([]models.RawMessage, error) {
	addr := fmt.Sprintf("%s:%d", c.config.Mailbox.Host, c.config.Mailbox.Port)

	conn, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", watcher.ErrMailboxUnavailable, addr, err)
	}
	defer conn.Logout()

	if err := conn.Login(c.config.Mailbox.User, c.config.Mailbox.Password); err != nil {
		return nil, fmt.Errorf("%w: login: %v", watcher.ErrMailboxUnavailable, err)
	}

	if _, err := conn.Select(folder, true); err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", watcher.ErrMailboxUnavailable, folder, err)
	}

	ids, err := conn.Search(imap.NewSearchCriteria())
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", watcher.ErrMailboxUnavailable, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(ids...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- conn.Fetch(seqSet, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var raw []models.RawMessage
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		data, err := io.ReadAll(body)
		if err != nil {
			c.logger.Warnf(providers.TypeMail, "Failed to read message %d: %s", msg.SeqNum, err)
			continue
		}
		raw = append(raw, data)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", watcher.ErrMailboxUnavailable, err)
	}

	c.logger.Infof(providers.TypeMail, "Fetched %d messages from %s", len(raw), folder)
	return raw, nil
}
