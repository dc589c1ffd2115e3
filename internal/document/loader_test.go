package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profileforge/internal/logging"
)

func TestLoadReadsPDFsAndSkipsOthers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Acme_Annual_Report.pdf"), []byte("%PDF-fake"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Acme_Investor_Deck.PDF"), []byte("%PDF-fake2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a pdf"), 0o644))

	set, err := Load(dir, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Count())
	for _, p := range set.Parts {
		assert.Equal(t, "application/pdf", p.MIMEType)
		assert.NotEmpty(t, p.Data)
	}
	assert.Equal(t, []string{"Acme_Annual_Report.pdf", "Acme_Investor_Deck.PDF"}, set.Filenames)
}

func TestLoadFailsWithoutPDFs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	_, err := Load(dir, logging.NewNop())
	assert.Error(t, err)
}

func TestCompanyName(t *testing.T) {
	assert.Equal(t, "Acme", CompanyName([]string{"Acme_Annual_Report.pdf"}))
	assert.Equal(t, "Globex", CompanyName([]string{"monthly_update.pdf", "Globex2024.pdf"}))
	assert.Equal(t, "Acme", CompanyName([]string{"profileforge_output.pdf", "Acme_Annual_Report.pdf"}))
	assert.Equal(t, "Unknown_Company", CompanyName([]string{"ProfileForge_Company_Profile.pdf"}))
	assert.Equal(t, "Unknown_Company", CompanyName([]string{"2024_report.pdf"}))
	assert.Equal(t, "Unknown_Company", CompanyName(nil))
}
