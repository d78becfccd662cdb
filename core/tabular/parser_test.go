package tabular

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/routekpi/core/model"
)

func TestParse_RecordCountMatchesRows(t *testing.T) {
	for rows := 0; rows < 5; rows++ {
		var b strings.Builder
		b.WriteString("request_id,vehicle_code,type\n")
		for i := 0; i < rows; i++ {
			fmt.Fprintf(&b, "R1,V%d,delivery\n", i)
		}
		tbl := Parse(b.String())
		require.Len(t, tbl.Records, rows)
		for _, rec := range tbl.Records {
			for _, f := range tbl.Fields {
				_, ok := rec[f]
				assert.True(t, ok, "field %s missing", f)
			}
		}
	}
}

func TestParse_QuotedComma(t *testing.T) {
	tbl := Parse("name,city\n\"A,B\",Paris\n")
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "A,B", tbl.Records[0]["name"])
	assert.Equal(t, "Paris", tbl.Records[0]["city"])
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \n\t\n"} {
		tbl := Parse(in)
		assert.Empty(t, tbl.Fields)
		assert.Empty(t, tbl.Records)
		assert.NotNil(t, tbl.Records)
	}
}

func TestParse_RaggedRows(t *testing.T) {
	tbl := Parse("a,b,c\n1\n1,2,3,4\n")
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, model.Record{"a": "1", "b": "", "c": ""}, tbl.Records[0])
	assert.Equal(t, model.Record{"a": "1", "b": "2", "c": "3"}, tbl.Records[1])
}

func TestParse_BlankLinesAndCRLF(t *testing.T) {
	tbl := Parse("a , b\r\n\r\n x ,  y \r\n\n")
	assert.Equal(t, []string{"a", "b"}, tbl.Fields)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "x", tbl.Records[0]["a"])
	assert.Equal(t, "y", tbl.Records[0]["b"])
}

// A lone literal quote opens a quoted span that never closes, so the
// following comma does not split.
func TestParse_LiteralQuoteLimitation(t *testing.T) {
	tbl := Parse("a,b\n5\" pipe,x\n")
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, `5" pipe,x`, tbl.Records[0]["a"])
	assert.Equal(t, "", tbl.Records[0]["b"])
}

func TestLookup(t *testing.T) {
	rec := model.Record{"Request_Id": "R9", "hub_code": ""}
	assert.Equal(t, "R9", Lookup(rec, model.UnknownScenario, ScenarioKeys...))
	assert.Equal(t, model.UnknownScenario, Lookup(rec, model.UnknownScenario, HubKeys...))
	assert.Equal(t, "", Lookup(rec, "", DistanceKeys...))

	rec["request_id"] = "R1"
	assert.Equal(t, "R1", Lookup(rec, model.UnknownScenario, ScenarioKeys...))
}
