package watcher

import (
	"bytes"
	"io"
	"regexp"
	"rwd/internal/models"
	"rwd/internal/providers"
	"rwd/internal/structures"
	"strconv"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// MailboxInterface fetches every message in a folder. Connection handling
// is its problem; a failure surfaces as ErrMailboxUnavailable.
type MailboxInterface interface {
	FetchAll(folder string) ([]models.RawMessage, error)
}

// Ingester pulls the status mailbox, classifies each message, and appends
// the results to the durable mail log. The whole folder is re-scanned on
// every run; records are not deduplicated across runs. That mirrors the
// upstream digest workflow, where the folder is rotated externally.
type Ingester struct {
	mailbox     MailboxInterface
	fileManager *FileManager
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	countRe     *regexp.Regexp
	warnToken   string
	errorToken  string
}

func NewIngester(mailbox MailboxInterface, fileManager *FileManager, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Ingester {
	countRe := regexp.MustCompile(`(?i)(\d+)\s+` + regexp.QuoteMeta(conf.Watcher.CountUnit))

	return &Ingester{
		mailbox:     mailbox,
		fileManager: fileManager,
		config:      conf,
		logger:      logger,
		metrics:     metrics,
		countRe:     countRe,
		warnToken:   strings.ToLower(conf.Watcher.WarnKeyword),
		errorToken:  strings.ToLower(conf.Watcher.ErrorKeyword),
	}
}

// IngestAll fetches and classifies every message in the configured folder.
// Mailbox failures are reported in the log and degrade to an empty result:
// a bad mail run must not take the scheduler down with it.
func (ing *Ingester) IngestAll() []*models.MailRecord {
	msgs, err := ing.mailbox.FetchAll(ing.config.Mailbox.Folder)
	if err != nil {
		ing.logger.Errorf(providers.TypeMail, "Mailbox fetch failed: %s", err)
		ing.metrics.IncChecksTotal("mail", "failed")
		return nil
	}

	records := make([]*models.MailRecord, 0, len(msgs))
	for _, raw := range msgs {
		rec, err := ing.parseMessage(raw)
		if err != nil {
			ing.logger.Warnf(providers.TypeMail, "Skipping unreadable message: %s", err)
			continue
		}
		records = append(records, rec)
	}

	if err := ing.fileManager.AppendMailRecords(records); err != nil {
		// The records still go upstream for notification, but a run whose
		// log append was lost does not count as a clean one.
		ing.logger.Errorf(providers.TypeMail, "Mail log append failed: %s", err)
		ing.metrics.IncChecksTotal("mail", "failed")
		return records
	}

	ing.metrics.IncChecksTotal("mail", "ok")
	ing.metrics.AddMailRecords(len(records))
	return records
}

// parseMessage decodes the subject and a plain-text body, then classifies
// the record. Decode failures inside a part degrade to an empty body; only
// a message the reader cannot open at all is dropped.
func (ing *Ingester) parseMessage(raw models.RawMessage) (*models.MailRecord, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer mr.Close()

	subject, err := mr.Header.Subject()
	if err != nil {
		subject = mr.Header.Get("Subject")
	}

	body := ing.extractBody(mr)

	rec := &models.MailRecord{
		Subject:    subject,
		Snippet:    snippet(body, ing.config.Watcher.SnippetLen),
		ObservedAt: time.Now(),
	}

	if m := ing.countRe.FindStringSubmatch(subject); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			rec.UpdateCount = &n
		}
	}

	lowered := strings.ToLower(body)
	rec.HasWarning = strings.Contains(lowered, ing.warnToken)
	rec.HasError = strings.Contains(lowered, ing.errorToken)

	return rec, nil
}

// extractBody returns the first inline text/plain part, or "" when no part
// decodes. Attachments are never considered.
func (ing *Ingester) extractBody(mr *mail.Reader) string {
	for {
		part, err := mr.NextPart()
		if err != nil {
			// io.EOF or a part-level decode failure: no usable body.
			return ""
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil || contentType != "text/plain" {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func snippet(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
