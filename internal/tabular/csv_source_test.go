package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	data := "\ufeffid,reviews.text,rating,verified\n" +
		"1,Love the battery life!,5,true\n" +
		"2,,4,false\n" +
		"3,\"Terrible screen, cracked.\",1\n"

	src, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, src.Len())
	assert.Equal(t, []string{"id", "reviews.text", "rating", "verified"}, src.Columns())
	assert.Equal(t, []string{"reviews.text"}, src.TextColumns())

	cells, ok := src.Cells("reviews.text")
	require.True(t, ok)
	assert.Equal(t, []Cell{
		{Value: "Love the battery life!"},
		{Missing: true},
		{Value: "Terrible screen, cracked."},
	}, cells)

	verified, ok := src.Cells("verified")
	require.True(t, ok)
	assert.True(t, verified[2].Missing)

	_, ok = src.Cells("missing")
	assert.False(t, ok)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"too many fields", "a,b\n1,2,3\n"},
		{"bad quote", "a,b\n\"x\"y,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrSourceUnreadable)
		})
	}
}

func TestTextColumnsIgnoresNumericAndEmpty(t *testing.T) {
	src, err := ReadCSV(strings.NewReader("score,blank,note\n1.5,,ok\n-2,,\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"note"}, src.TextColumns())
}

func TestDuplicateHeaderKeepsFirst(t *testing.T) {
	src, err := ReadCSV(strings.NewReader("text,text\nfirst,second\n"))
	require.NoError(t, err)

	cells, ok := src.Cells("text")
	require.True(t, ok)
	assert.Equal(t, []Cell{{Value: "first"}}, cells)
	assert.Equal(t, []string{"text"}, src.TextColumns())
}

func TestReadCSVTreatsNAMarkersAsMissing(t *testing.T) {
	data := "id,score,body\n" +
		"1,NA,nice watch\n" +
		"2,4.5,N/A\n" +
		"3,3,\n"

	src, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"body"}, src.TextColumns())

	body, ok := src.Cells("body")
	require.True(t, ok)
	assert.Equal(t, []Cell{{Value: "nice watch"}, {Missing: true}, {Missing: true}}, body)

	score, ok := src.Cells("score")
	require.True(t, ok)
	assert.True(t, score[0].Missing)
	assert.Equal(t, "4.5", score[1].Value)
}

func TestNAMarkersAreExact(t *testing.T) {
	for _, v := range []string{"NA", "null", "#N/A", "<NA>", "-1.#QNAN"} {
		assert.True(t, isNAMarker(v), v)
	}
	for _, v := range []string{"na", " NA", "none", "N.A."} {
		assert.False(t, isNAMarker(v), v)
	}
}
