package descriptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/internal/shared/testutil"
	"truccoanalytics/pkg/contracts/domain"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewAnalyzer(logger)
}

func TestAnalyzer_CleanText(t *testing.T) {
	a := newAnalyzer(t)

	got := a.CleanText("Vestido de punto, con el cuello redondo y manga larga.")
	assert.Equal(t, "vestido de punto con cuello redondo manga larga", got)
}

func TestAnalyzer_Extract(t *testing.T) {
	a := newAnalyzer(t)

	tests := []struct {
		name string
		text string
		want map[string][]string
	}{
		{
			name: "garment with neckline and sleeve",
			text: "Vestido de punto con cuello redondo y manga larga",
			want: map[string][]string{
				CategoryGarment:  {"vestido"},
				CategoryFabric:   {"punto"},
				CategoryNeckline: {"redondo"},
				CategorySleeve:   {"larga"},
			},
		},
		{
			name: "synonym normalization",
			text: "Playera de cotton con escote en v",
			want: map[string][]string{
				CategoryGarment:  {"camiseta"},
				CategoryFabric:   {"algodón"},
				CategoryNeckline: {"pico"},
			},
		},
		{
			name: "longest phrase wins",
			text: "Blusa con manga corta con volante",
			want: map[string][]string{
				CategoryGarment: {"blusa"},
				CategorySleeve:  {"corta con volante"},
			},
		},
		{
			name: "empty text",
			text: "",
			want: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Extract(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzer_AttributeFrequencies(t *testing.T) {
	a := newAnalyzer(t)

	table := domain.NewTable(domain.TableProducts)
	table.Columns = []domain.Column{
		{
			Name: dataprocessing.ColDescription,
			Type: domain.ColumnString,
			Cells: []domain.Cell{
				domain.StringCell("Vestido de punto con cuello redondo"),
				domain.StringCell("Camisa de lino con cuello redondo"),
				// Duplicate description counts once.
				domain.StringCell("Vestido de punto con cuello redondo"),
				domain.StringCell("Falda midi de seda"),
			},
		},
	}

	series := a.AttributeFrequencies(context.Background(), table, 10)
	require.NotEmpty(t, series)

	var necklines *domain.GroupedSeries
	for i := range series {
		if series[i].Name == CategoryNeckline {
			necklines = &series[i]
		}
	}
	require.NotNil(t, necklines)
	require.Len(t, necklines.Points, 1)
	assert.Equal(t, "redondo", necklines.Points[0].Category)
	assert.InDelta(t, 2.0, necklines.Points[0].Value, 1e-9)
}

func TestAnalyzer_AttributeFrequencies_NoDescriptionColumn(t *testing.T) {
	a := newAnalyzer(t)

	table := domain.NewTable(domain.TableProducts)
	series := a.AttributeFrequencies(context.Background(), table, 10)
	assert.Nil(t, series)
}
