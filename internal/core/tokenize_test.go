package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"trims cells", "  a , b ,c  ", []string{"a", "b", "c"}},
		{"empty cells", "a,,c,", []string{"a", "", "c", ""}},
		{"single cell", "solo", []string{"solo"}},
		{"carriage return", "a,b\r", []string{"a", "b"}},
		{"quotes removed", `"Jane Doe",00:32:15`, []string{"Jane Doe", "00:32:15"}},
		{"unterminated quote swallows rest", `a,"b,c`, []string{"a", "b,c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \n\t\n"} {
		assert.Empty(t, Tokenize(in), "input %q", in)
	}
}

func TestTokenize_HeaderOnly(t *testing.T) {
	assert.Empty(t, Tokenize("year,division\n"))
}

func TestTokenize_RowCountAndKeys(t *testing.T) {
	header := []string{"year", "leg_number", "leg_version", "runner", "lap_time"}

	for _, n := range []int{1, 3, 25} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			var b strings.Builder
			b.WriteString(strings.Join(header, ",") + "\n")
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "2023,%d,1,Runner %d,00:30:%02d\n", i+1, i, i%60)
			}

			rows := Tokenize(b.String())
			require.Len(t, rows, n)
			for i, r := range rows {
				assert.Equal(t, header, r.Keys())
				assert.Equal(t, fmt.Sprintf("%d", i+1), r.Value("leg_number"), "rows keep file order")
			}
		})
	}
}

func TestTokenize_SkipsBlankLines(t *testing.T) {
	text := "\n  \nyear,division\n\n2023,Open\n   \n2024,Mixed\n"
	rows := Tokenize(text)
	require.Len(t, rows, 2)
	assert.Equal(t, "Open", rows[0].Value("division"))
	assert.Equal(t, "Mixed", rows[1].Value("division"))
}

func TestTokenize_MissingTrailingCells(t *testing.T) {
	rows := Tokenize("year,division,bib\n2023\n")
	require.Len(t, rows, 1)

	v, ok := rows[0].Get("bib")
	assert.True(t, ok, "missing trailing cell keeps the key")
	assert.Equal(t, "", v)
	assert.Equal(t, "2023", rows[0].Value("year"))
}

func TestTokenize_ExtraCellsIgnored(t *testing.T) {
	rows := Tokenize("year\n2023,extra,more\n")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Len())
	assert.Equal(t, "2023", rows[0].Value("year"))
}

func TestTokenize_DuplicateHeaderKeepsLast(t *testing.T) {
	rows := Tokenize("year,runner,year\n2022,Jane,2023\n")
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"year", "runner"}, rows[0].Keys())
	assert.Equal(t, "2023", rows[0].Value("year"))
}

func TestTokenize_CRLF(t *testing.T) {
	rows := Tokenize("year,division\r\n2023,Open\r\n")
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"year", "division"}, rows[0].Keys())
	assert.Equal(t, "Open", rows[0].Value("division"))
}

func TestRows_Restartable(t *testing.T) {
	seq := Rows("a,b\n1,2\n3,4\n")

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count())
}

func TestRows_StopsEarly(t *testing.T) {
	var seen []string
	for r := range Rows("a\n1\n2\n3\n") {
		seen = append(seen, r.Value("a"))
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestRow_KeysIsCopy(t *testing.T) {
	r := NewRow([]string{"a", "b"}, []string{"1", "2"})
	keys := r.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}
