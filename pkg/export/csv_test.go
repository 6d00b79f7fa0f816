package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers:       []string{"Student Name", "Grade", "Status"},
		QuotedColumns: []string{"Student Name"},
		Rows: []map[string]string{
			{"Student Name": "Alice Johnson", "Grade": "10", "Status": "Present"},
			{"Student Name": `Bob "Bobby" Williams`, "Grade": "10", "Status": "Absent"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Student Name,Grade,Status", lines[0])
	require.Equal(t, `"Alice Johnson",10,Present`, lines[1])
	require.Equal(t, `"Bob ""Bobby"" Williams",10,Absent`, lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Student Name", "Date", "Status"},
		Rows: []map[string]string{
			{"Student Name": "Alice Johnson", "Date": "2024-01-01", "Status": "Present"},
		},
	}

	out, err := exporter.Render(data, "Attendance Report")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.True(t, strings.HasPrefix(string(out), "%PDF"))
}
