package watcher

import (
	"errors"
	"path/filepath"
	"rwd/internal/models"
	"rwd/internal/services"
	"rwd/internal/structures"
	"rwd/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMailbox struct {
	msgs   []models.RawMessage
	err    error
	folder string
}

func (m *mockMailbox) FetchAll(folder string) ([]models.RawMessage, error) {
	m.folder = folder
	return m.msgs, m.err
}

// crlf joins lines with the \r\n line endings RFC 822 requires.
func crlf(lines ...string) models.RawMessage {
	return models.RawMessage(strings.Join(lines, "\r\n"))
}

func newTestIngester(t *testing.T, box *mockMailbox, mutate func(*structures.Config)) (*Ingester, services.RegistryServiceInterface, *testutil.MockLogger, *testutil.MockMetrics) {
	t.Helper()
	conf := testConfig(filepath.Join(t.TempDir(), "registry.dat"))
	if mutate != nil {
		mutate(conf)
	}
	fm, registry := newTestFileManager(conf)
	require.NoError(t, fm.LoadFromFile(conf.Persistence.FilePath))

	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewIngester(box, fm, conf, logger, metrics), registry, logger, metrics
}

func TestIngester_ClassifiesDigestMessage(t *testing.T) {
	box := &mockMailbox{msgs: []models.RawMessage{crlf(
		"From: robot@example.com",
		"To: ops@example.com",
		"Subject: =?UTF-8?B?0J7QsdC90L7QstC70LXQvdC40LUgKDEyINGI0YIp?=",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: base64",
		"",
		"0JLRi9C/0L7Qu9C90LXQvdC+INC+0LHQvdC+0LLQu9C10L3QuNC1INC60L7QvdGE0LjQs9GD0YDQsNGG0LjQuS4K0JIg0LbRg9GA0L3QsNC70LUg0L7QsdC90LDRgNGD0LbQtdC90LAg0L7RiNC40LHQutCwINC00L7RgdGC0YPQv9CwLg==",
	)}}
	ing, registry, _, _ := newTestIngester(t, box, nil)

	records := ing.IngestAll()
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Обновление (12 шт)", rec.Subject)
	require.NotNil(t, rec.UpdateCount)
	assert.Equal(t, 12, *rec.UpdateCount)
	assert.True(t, rec.HasError)
	assert.False(t, rec.HasWarning)
	assert.Contains(t, rec.Snippet, "обновление")
	assert.False(t, rec.ObservedAt.IsZero())

	assert.Equal(t, "INBOX", box.folder)
	assert.Len(t, registry.GetMailLog(), 1)
}

func TestIngester_MultipartPrefersInlinePlainText(t *testing.T) {
	box := &mockMailbox{msgs: []models.RawMessage{crlf(
		"From: robot@example.com",
		"Subject: status",
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=frontier",
		"",
		"--frontier",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Disposition: attachment; filename=\"log.txt\"",
		"",
		"attached text must not be scanned: предупреждение",
		"--frontier",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html part</p>",
		"--frontier",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"all clear today",
		"--frontier--",
		"",
	)}}
	ing, _, _, _ := newTestIngester(t, box, nil)

	records := ing.IngestAll()
	require.Len(t, records, 1)
	assert.Equal(t, "all clear today", strings.TrimSpace(records[0].Snippet))
	assert.False(t, records[0].HasWarning)
	assert.False(t, records[0].HasError)
}

func TestIngester_NoCountInSubjectLeavesItUnset(t *testing.T) {
	box := &mockMailbox{msgs: []models.RawMessage{crlf(
		"From: robot@example.com",
		"Subject: plain status mail",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"body",
	)}}
	ing, _, _, _ := newTestIngester(t, box, nil)

	records := ing.IngestAll()
	require.Len(t, records, 1)
	assert.Nil(t, records[0].UpdateCount)
}

func TestIngester_SnippetTruncation(t *testing.T) {
	box := &mockMailbox{msgs: []models.RawMessage{crlf(
		"From: robot@example.com",
		"Subject: long",
		"Content-Type: text/plain; charset=utf-8",
		"",
		strings.Repeat("x", 500),
	)}}
	ing, _, _, _ := newTestIngester(t, box, func(conf *structures.Config) {
		conf.Watcher.SnippetLen = 10
	})

	records := ing.IngestAll()
	require.Len(t, records, 1)
	assert.Equal(t, "xxxxxxxxxx", records[0].Snippet)
}

func TestIngester_MailboxFailureYieldsEmptyResult(t *testing.T) {
	box := &mockMailbox{err: errors.New("connection refused")}
	ing, registry, logger, metrics := newTestIngester(t, box, nil)

	records := ing.IngestAll()
	assert.Empty(t, records)
	assert.True(t, logger.HasLevel("error"))
	assert.Equal(t, 1, metrics.Checks["mail:failed"])
	assert.Empty(t, registry.GetMailLog())
}

func TestIngester_AppendFailureCountsAsFailed(t *testing.T) {
	box := &mockMailbox{msgs: []models.RawMessage{crlf(
		"From: robot@example.com",
		"Subject: status",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"body",
	)}}
	ing, _, logger, metrics := newTestIngester(t, box, func(conf *structures.Config) {
		conf.Persistence.FilePath = "/nonexistent/directory/registry.dat"
	})

	// The records still go upstream, but the run is not a clean one when
	// the durable log lost them.
	records := ing.IngestAll()
	require.Len(t, records, 1)
	assert.True(t, logger.HasLevel("error"))
	assert.Equal(t, 1, metrics.Checks["mail:failed"])
	assert.Equal(t, 0, metrics.Checks["mail:ok"])
	assert.Equal(t, 0, metrics.MailRecords)
}

func TestIngester_MalformedRecordStillAppended(t *testing.T) {
	// No parsable count, no known keywords, empty body: still logged.
	box := &mockMailbox{msgs: []models.RawMessage{crlf(
		"From: robot@example.com",
		"Subject: weird",
		"Content-Type: application/octet-stream",
		"",
		"\x00\x01\x02",
	)}}
	ing, registry, _, _ := newTestIngester(t, box, nil)

	records := ing.IngestAll()
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Snippet)
	assert.Len(t, registry.GetMailLog(), 1)
}
