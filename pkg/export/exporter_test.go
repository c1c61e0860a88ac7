package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Absences",
		Headers: []string{"Date", "Professeur", "Salle"},
		Rows: []map[string]string{
			{"Date": "2025-11-10", "Professeur": "DUPONT", "Salle": "A101"},
			{"Date": "2025-11-11", "Professeur": "MARTIN"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Date,Professeur,Salle\n2025-11-10,DUPONT,A101\n2025-11-11,MARTIN,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "pdf", NewPDFExporter().Extension())
}
