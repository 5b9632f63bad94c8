package backup

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simonvc/ledgerbook/internal/ledger"
	"github.com/simonvc/ledgerbook/internal/store"
)

type memUploader struct {
	container string
	name      string
	data      []byte
	err       error
}

func (m *memUploader) Upload(_ context.Context, container, blobName string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.container, m.name, m.data = container, blobName, data
	return nil
}

func TestBlobName(t *testing.T) {
	at := time.Date(2024, 3, 1, 13, 4, 5, 0, time.FixedZone("CET", 3600))
	require.Equal(t, "ledger-20240301T120405Z.csv", BlobName(at))
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	st, err := store.Open(filepath.Join(t.TempDir(), "backup.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Append(ctx, ledger.Draft{CustomerSupplier: "ACME", Type: "income", Price: "100", VAT: "19", Total: "119"})
	require.NoError(t, err)

	up := &memUploader{}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	name, n, err := Run(ctx, st, up, "ledger-backups", now)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ledger-20240301T120000Z.csv", name)
	require.Equal(t, "ledger-backups", up.container)
	require.Equal(t, name, up.name)

	lines := strings.Split(strings.TrimSpace(string(up.data)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "1,ACME,income,"))
}

func TestRunUploadError(t *testing.T) {
	ctx := context.Background()

	st, err := store.Open(filepath.Join(t.TempDir(), "backup.db"))
	require.NoError(t, err)
	defer st.Close()

	boom := errors.New("boom")
	_, _, err = Run(ctx, st, &memUploader{err: boom}, "c", time.Now())
	require.ErrorIs(t, err, boom)
}

func TestNewBlobStore(t *testing.T) {
	_, err := NewBlobStore("")
	require.Error(t, err)

	b, err := NewBlobStore("http://127.0.0.1:10000/devstoreaccount1")
	require.NoError(t, err)
	require.NotNil(t, b.client)

	require.True(t, isLocal("http://localhost:10000"))
	require.False(t, isLocal("https://acct.blob.core.windows.net"))
}
