package marketdata

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPanelCSV(t *testing.T) {
	input := "date,AAPL,MSFT\n" +
		"2023-01-02,150.5,300\n" +
		"2023-01-03,,301.5\n"

	panel, err := ReadPanelCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Equal(t, 2, panel.Len())
	assert.Equal(t, []string{"AAPL", "MSFT"}, panel.Tickers())
	assert.Equal(t, map[string]float64{"AAPL": 150.5, "MSFT": 300}, panel.Row(0))

	// The empty cell means no AAPL price on the 3rd.
	assert.Equal(t, map[string]float64{"MSFT": 301.5}, panel.Row(1))
	aapl, _ := panel.Column("AAPL")
	assert.True(t, math.IsNaN(aapl[1]))
}

func TestReadPanelCSV_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"missing date column", "ticker,AAPL\n2023-01-02,150\n"},
		{"header only", "date,AAPL\n"},
		{"bad date", "date,AAPL\nyesterday,150\n"},
		{"bad price", "date,AAPL\n2023-01-02,cheap\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadPanelCSV(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}
